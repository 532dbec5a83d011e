package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func (r *repository) BookTotals(ctx context.Context) (books, copies, available int64, err error) {
	query, args, err := qb.Select("count(*)", "coalesce(sum(total_copies), 0)", "coalesce(sum(available_copies), 0)").
		From(booksTableName).
		ToSql()
	if err != nil {
		return 0, 0, 0, err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&books, &copies, &available)
	return books, copies, available, err
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, qb.Select("count(*)").From(usersTableName))
}

func (r *repository) CountLoans(ctx context.Context, status model.LoanStatus) (int64, error) {
	return r.count(ctx, qb.Select("count(*)").From(loansTableName).Where(sq.Eq{"status": status}))
}

func (r *repository) CountReservations(ctx context.Context, status model.ReservationStatus) (int64, error) {
	return r.count(ctx, qb.Select("count(*)").From(reservationsTableName).Where(sq.Eq{"status": status}))
}

func (r *repository) OutstandingFines(ctx context.Context) (decimal.Decimal, error) {
	query, args, err := qb.Select("coalesce(sum(fine_amount), 0)").
		From(loansTableName).
		Where(sq.Eq{"fine_paid": false}).
		ToSql()
	if err != nil {
		return decimal.Zero, err
	}
	var total decimal.Decimal
	err = r.db.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *repository) count(ctx context.Context, q sq.SelectBuilder) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	err = r.db.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}
