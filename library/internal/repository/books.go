package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var bookColumns = []string{"id", "title", "author", "isbn", "category", "total_copies", "available_copies", "created_at", "updated_at"}

func bookNotFound(id int64) error {
	return errs.NotFound("book %d not found", id)
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "category", "total_copies", "available_copies", "created_at", "updated_at").
		Values(book.Title, book.Author, book.ISBN, book.Category, book.TotalCopies, book.AvailableCopies, book.CreatedAt, book.UpdatedAt).
		Suffix("returning " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	created, err := queryOne[model.Book](ctx, r.db, query, args...)
	if err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return model.Book{}, mapErr(err, err)
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	book, err := queryOne[model.Book](ctx, r.db, query, args...)
	if err != nil {
		return model.Book{}, mapErr(err, bookNotFound(id))
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title", "id")
	if filter.Title != "" {
		q = q.Where(sq.ILike{"title": "%" + filter.Title + "%"})
	}
	if filter.Author != "" {
		q = q.Where(sq.ILike{"author": "%" + filter.Author + "%"})
	}
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}
	if filter.OnlyAvailable {
		q = q.Where(sq.Gt{"available_copies": 0})
	}
	q = paginate(q, filter.Page, filter.Size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books, err := queryAll[model.Book](ctx, r.db, query, args...)
	if err != nil {
		return model.ListBooks{}, err
	}
	return model.ListBooks{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

// UpdateBook applies a totalCopies change to availableCopies by the same delta.
func (r *repository) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest, at time.Time) (model.Book, error) {
	q := qb.Update(booksTableName).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(bookColumns, ", "))
	if req.Title != nil {
		q = q.Set("title", *req.Title)
	}
	if req.Author != nil {
		q = q.Set("author", *req.Author)
	}
	if req.ISBN != nil {
		q = q.Set("isbn", *req.ISBN)
	}
	if req.Category != nil {
		q = q.Set("category", *req.Category)
	}
	if req.TotalCopies != nil {
		total := *req.TotalCopies
		q = q.Set("total_copies", total).
			Set("available_copies", sq.Expr("available_copies + (? - total_copies)", total)).
			Where(sq.Expr("available_copies + (? - total_copies) >= 0", total))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	book, err := queryOne[model.Book](ctx, r.db, query, args...)
	if err == nil {
		return book, nil
	}
	if !errorsIsNoRows(err) || req.TotalCopies == nil {
		return model.Book{}, mapErr(err, bookNotFound(id))
	}
	if _, err = r.GetBook(ctx, id); err != nil {
		return model.Book{}, err
	}
	return model.Book{}, errs.Conflict("total copies of book %d cannot drop below the copies on loan", id)
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// lock the book row so a concurrent borrow waits for the delete
		var total int
		err := tx.QueryRow(ctx, `select total_copies from books where id = $1 for update`, id).Scan(&total)
		if err != nil {
			return mapErr(err, bookNotFound(id))
		}
		var active bool
		err = tx.QueryRow(ctx, `
select exists(select 1 from loans where book_id = $1 and status in ('borrowed', 'overdue'))`, id).Scan(&active)
		if err != nil {
			return err
		}
		if active {
			return errs.Conflict("book %d has active loans", id)
		}
		if _, err = tx.Exec(ctx, `
update reservations set status = 'cancelled' where book_id = $1 and status = 'pending'`, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `delete from books where id = $1`, id)
		return err
	})
}
