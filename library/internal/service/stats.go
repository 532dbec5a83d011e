package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var (
		stats    model.DashboardStats
		borrowed int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalBooks, stats.TotalCopies, stats.AvailableCopies, err = s.repo.BookTotals(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Users, err = s.repo.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		borrowed, err = s.repo.CountLoans(ctx, model.LoanStatusBorrowed)
		return err
	})
	g.Go(func() (err error) {
		stats.OverdueLoans, err = s.repo.CountLoans(ctx, model.LoanStatusOverdue)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingReservations, err = s.repo.CountReservations(ctx, model.ReservationStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.OutstandingFines, err = s.repo.OutstandingFines(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, err
	}
	stats.ActiveLoans = borrowed + stats.OverdueLoans
	return stats, nil
}
