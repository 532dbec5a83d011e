package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var loanColumns = []string{"id", "user_id", "book_id", "borrow_date", "due_date", "return_date", "status", "fine_amount", "fine_paid"}

var loanReturning = "returning " + strings.Join(loanColumns, ", ")

func loanNotFound(id int64) error {
	return errs.NotFound("loan %d not found", id)
}

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	var created model.Loan
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
update books
    set available_copies = available_copies - 1, updated_at = $2
where id = $1 and available_copies > 0`, loan.BookID, loan.BorrowDate)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err = tx.QueryRow(ctx, `select exists(select 1 from books where id = $1)`, loan.BookID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return bookNotFound(loan.BookID)
			}
			return errs.Conflict("book %d has no available copies", loan.BookID)
		}

		query, args, err := qb.Insert(loansTableName).
			Columns("user_id", "book_id", "borrow_date", "due_date", "status", "fine_amount", "fine_paid").
			Values(loan.UserID, loan.BookID, loan.BorrowDate, loan.DueDate, model.LoanStatusBorrowed, decimal.Zero, false).
			Suffix(loanReturning).
			ToSql()
		if err != nil {
			return err
		}
		created, err = queryOne[model.Loan](ctx, tx, query, args...)
		return err
	})
	if err != nil {
		return model.Loan{}, mapErr(err, err)
	}
	return created, nil
}

func (r *repository) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	query, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	loan, err := queryOne[model.Loan](ctx, r.db, query, args...)
	if err != nil {
		return model.Loan{}, mapErr(err, loanNotFound(id))
	}
	return loan, nil
}

func (r *repository) ReturnLoan(ctx context.Context, id int64, at time.Time) (model.Loan, error) {
	var returned model.Loan
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		returned, err = queryOne[model.Loan](ctx, tx, `
update loans
    set status = 'returned', return_date = $2
where id = $1 and status in ('borrowed', 'overdue')
`+loanReturning, id, at)
		if errorsIsNoRows(err) {
			var status model.LoanStatus
			if err = tx.QueryRow(ctx, `select status from loans where id = $1`, id).Scan(&status); err != nil {
				return mapErr(err, loanNotFound(id))
			}
			return errs.Conflict("loan %d is already returned", id)
		}
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
update books
    set available_copies = available_copies + 1, updated_at = $2
where id = $1 and available_copies < total_copies`, returned.BookID, at)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			r.log.Warn("ReturnLoan: copy not given back",
				zap.Int64("loan_id", id), zap.Int64("book_id", returned.BookID))
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, mapErr(err, err)
	}
	return returned, nil
}

func (r *repository) MarkOverdue(ctx context.Context, now time.Time) ([]model.Loan, error) {
	q := fmt.Sprintf(`
with moved as (
    update loans
        set status = 'overdue'
    where status = 'borrowed' and due_date < $1
    %s
)
select * from moved order by id`, loanReturning)
	return queryAll[model.Loan](ctx, r.db, q, now)
}

func (r *repository) ListActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	query, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"status": []model.LoanStatus{model.LoanStatusBorrowed, model.LoanStatusOverdue}}).
		OrderBy("borrow_date desc", "id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryAll[model.Loan](ctx, r.db, query, args...)
}

func (r *repository) SetFine(ctx context.Context, id int64, amount decimal.Decimal) (model.Loan, error) {
	loan, err := queryOne[model.Loan](ctx, r.db, `
update loans set fine_amount = $2
where id = $1 and not fine_paid
`+loanReturning, id, amount)
	if errorsIsNoRows(err) {
		if _, err = r.GetLoan(ctx, id); err != nil {
			return model.Loan{}, err
		}
		return model.Loan{}, errs.Conflict("fine of loan %d is already paid", id)
	}
	if err != nil {
		return model.Loan{}, mapErr(err, err)
	}
	return loan, nil
}

func (r *repository) PayFine(ctx context.Context, id int64) (model.Loan, error) {
	loan, err := queryOne[model.Loan](ctx, r.db, `
update loans set fine_paid = true
where id = $1 and not fine_paid and fine_amount > 0
`+loanReturning, id)
	if errorsIsNoRows(err) {
		if _, err = r.GetLoan(ctx, id); err != nil {
			return model.Loan{}, err
		}
		return model.Loan{}, errs.Conflict("loan %d has no outstanding fine", id)
	}
	if err != nil {
		return model.Loan{}, mapErr(err, err)
	}
	return loan, nil
}
