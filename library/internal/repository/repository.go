package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

type BookRepository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest, at time.Time) (model.Book, error)
	// DeleteBook fails with a conflict while an active loan references the book.
	DeleteBook(ctx context.Context, id int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	ListUsers(ctx context.Context, page, size int) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error)
}

type LoanRepository interface {
	// CreateLoan takes one copy of the book and inserts the loan in one transaction.
	// The copy is taken with a conditional update, so the last copy cannot be lent twice.
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	// ReturnLoan moves an active loan to returned and gives the copy back in one transaction.
	ReturnLoan(ctx context.Context, id int64, at time.Time) (model.Loan, error)
	// MarkOverdue moves every borrowed loan due before now to overdue and returns the moved rows.
	MarkOverdue(ctx context.Context, now time.Time) ([]model.Loan, error)
	ListActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	SetFine(ctx context.Context, id int64, amount decimal.Decimal) (model.Loan, error)
	PayFine(ctx context.Context, id int64) (model.Loan, error)
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (model.Reservation, error)
	// ExpireReservations moves every pending reservation expired before now and returns the moved rows.
	ExpireReservations(ctx context.Context, now time.Time) ([]model.Reservation, error)
	// FulfillOldestPending marks the oldest pending reservation of the book fulfilled.
	// ok is false when the book has no pending reservation.
	FulfillOldestPending(ctx context.Context, bookID int64) (rsv model.Reservation, ok bool, err error)
	ListPendingReservations(ctx context.Context, userID int64) ([]model.Reservation, error)
}

type StatsRepository interface {
	BookTotals(ctx context.Context) (books, copies, available int64, err error)
	CountUsers(ctx context.Context) (int64, error)
	CountLoans(ctx context.Context, status model.LoanStatus) (int64, error)
	CountReservations(ctx context.Context, status model.ReservationStatus) (int64, error)
	OutstandingFines(ctx context.Context) (decimal.Decimal, error)
}

type Repository interface {
	BookRepository
	UserRepository
	LoanRepository
	ReservationRepository
	StatsRepository
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName        = `users`
	booksTableName        = `books`
	loansTableName        = `loans`
	reservationsTableName = `reservations`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var constraintMessages = map[string]string{
	"users_email_key":                        "email is already registered",
	"books_isbn_key":                         "book with this isbn already exists",
	"books_available_copies_range":           "available copies out of range",
	"loans_one_active_per_user_book":         "user already has an active loan for this book",
	"reservations_one_pending_per_user_book": "user already has a pending reservation for this book",
}

// mapErr turns driver errors into the errs taxonomy; notFound is used for pgx.ErrNoRows.
func mapErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.CheckViolation:
			if msg, ok := constraintMessages[pgErr.ConstraintName]; ok {
				return errs.Conflict("%s", msg)
			}
			return errs.Conflict("constraint %s violated", pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return errs.NotFound("referenced entity does not exist")
		}
	}
	return err
}

func paginate(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page > 0 && size > 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}

func queryAll[T any](ctx context.Context, db pgxQuerier, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func queryOne[T any](ctx context.Context, db pgxQuerier, query string, args ...any) (T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func errorsIsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var _ Repository = (*repository)(nil)
