package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) CreateReservation(ctx context.Context, caller model.Caller, req model.CreateReservationRequest) (model.Reservation, error) {
	userID := req.UserID
	if userID == 0 {
		userID = caller.UserID
	}
	if !caller.CanActFor(userID) {
		return model.Reservation{}, errs.Forbidden("students may only reserve for themselves")
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.Reservation{}, err
	}
	if user.Status != model.UserStatusActive {
		return model.Reservation{}, errs.Conflict("user %d is %s", user.ID, user.Status)
	}
	book, err := s.repo.GetBook(ctx, req.BookID)
	if err != nil {
		return model.Reservation{}, err
	}
	if book.AvailableCopies > 0 {
		return model.Reservation{}, errs.Conflict("book %d has available copies, no need to reserve", book.ID)
	}

	now := s.clock.Now()
	return s.repo.CreateReservation(ctx, model.Reservation{
		UserID:          user.ID,
		BookID:          book.ID,
		ReservationDate: now,
		ExpiryDate:      now.Add(reservationPeriod),
	})
}

// CancelReservation is allowed to the owner and to admins; staff cannot cancel.
func (s *Service) CancelReservation(ctx context.Context, caller model.Caller, id int64) (model.Reservation, error) {
	rsv, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if caller.Role != model.RoleAdmin && caller.UserID != rsv.UserID {
		return model.Reservation{}, errs.Forbidden("reservation %d belongs to another member", id)
	}
	return s.repo.CancelReservation(ctx, id)
}

func (s *Service) SweepExpired(ctx context.Context) ([]model.Reservation, error) {
	moved, err := s.repo.ExpireReservations(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	for _, rsv := range moved {
		if user, book, ok := s.recipient(ctx, rsv.UserID, rsv.BookID); ok {
			s.notifier.NotifyReservationExpired(ctx, user, book, rsv.ExpiryDate)
		}
	}
	if len(moved) > 0 {
		s.log.Info("expiry sweep", zap.Int("moved", len(moved)))
	}
	return moved, nil
}

// FulfillOldestPending does not hold a copy for the member: anyone may still borrow it first.
func (s *Service) FulfillOldestPending(ctx context.Context, bookID int64) (model.Reservation, bool, error) {
	rsv, ok, err := s.repo.FulfillOldestPending(ctx, bookID)
	if err != nil || !ok {
		return model.Reservation{}, false, err
	}
	if user, book, found := s.recipient(ctx, rsv.UserID, rsv.BookID); found {
		s.notifier.NotifyReservationFulfilled(ctx, user, book, rsv.ExpiryDate)
	}
	return rsv, true, nil
}

func (s *Service) ListActiveReservations(ctx context.Context, caller model.Caller, userID int64) ([]model.Reservation, error) {
	if !caller.CanActFor(userID) {
		return nil, errs.Forbidden("reservations of member %d are not visible", userID)
	}
	return s.repo.ListPendingReservations(ctx, userID)
}
