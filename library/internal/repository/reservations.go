package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var reservationColumns = []string{"id", "user_id", "book_id", "reservation_date", "expiry_date", "status"}

var reservationReturning = "returning " + strings.Join(reservationColumns, ", ")

func reservationNotFound(id int64) error {
	return errs.NotFound("reservation %d not found", id)
}

func (r *repository) CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Insert(reservationsTableName).
		Columns("user_id", "book_id", "reservation_date", "expiry_date", "status").
		Values(rsv.UserID, rsv.BookID, rsv.ReservationDate, rsv.ExpiryDate, model.ReservationStatusPending).
		Suffix(reservationReturning).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	created, err := queryOne[model.Reservation](ctx, r.db, query, args...)
	if err != nil {
		return model.Reservation{}, mapErr(err, err)
	}
	return created, nil
}

func (r *repository) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	rsv, err := queryOne[model.Reservation](ctx, r.db, query, args...)
	if err != nil {
		return model.Reservation{}, mapErr(err, reservationNotFound(id))
	}
	return rsv, nil
}

func (r *repository) CancelReservation(ctx context.Context, id int64) (model.Reservation, error) {
	rsv, err := queryOne[model.Reservation](ctx, r.db, `
update reservations set status = 'cancelled'
where id = $1 and status = 'pending'
`+reservationReturning, id)
	if errorsIsNoRows(err) {
		current, err := r.GetReservation(ctx, id)
		if err != nil {
			return model.Reservation{}, err
		}
		return model.Reservation{}, errs.Conflict("reservation %d is %s", id, current.Status)
	}
	if err != nil {
		return model.Reservation{}, err
	}
	return rsv, nil
}

func (r *repository) ExpireReservations(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	q := fmt.Sprintf(`
with moved as (
    update reservations
        set status = 'expired'
    where status = 'pending' and expiry_date < $1
    %s
)
select * from moved order by id`, reservationReturning)
	return queryAll[model.Reservation](ctx, r.db, q, now)
}

func (r *repository) FulfillOldestPending(ctx context.Context, bookID int64) (model.Reservation, bool, error) {
	rsv, err := queryOne[model.Reservation](ctx, r.db, `
update reservations set status = 'fulfilled'
where id = (
    select id from reservations
    where book_id = $1 and status = 'pending'
    order by reservation_date, id
    limit 1
    for update skip locked
)
`+reservationReturning, bookID)
	if errorsIsNoRows(err) {
		return model.Reservation{}, false, nil
	}
	if err != nil {
		return model.Reservation{}, false, err
	}
	return rsv, true, nil
}

func (r *repository) ListPendingReservations(ctx context.Context, userID int64) ([]model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"user_id": userID, "status": model.ReservationStatusPending}).
		OrderBy("reservation_date desc", "id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryAll[model.Reservation](ctx, r.db, query, args...)
}
