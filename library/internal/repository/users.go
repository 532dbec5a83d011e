package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var userColumns = []string{"id", "name", "email", "role", "status", "created_at"}

func userNotFound(id int64) error {
	return errs.NotFound("user %d not found", id)
}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("name", "email", "role", "status", "created_at").
		Values(user.Name, user.Email, user.Role, user.Status, user.CreatedAt).
		Suffix("returning " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	created, err := queryOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		return model.User{}, mapErr(err, err)
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	user, err := queryOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		return model.User{}, mapErr(err, userNotFound(id))
	}
	return user, nil
}

func (r *repository) ListUsers(ctx context.Context, page, size int) ([]model.User, error) {
	q := paginate(qb.Select(userColumns...).From(usersTableName).OrderBy("id"), page, size)
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return queryAll[model.User](ctx, r.db, query, args...)
}

func (r *repository) UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	if req.Role == nil && req.Status == nil {
		return r.GetUser(ctx, id)
	}
	q := qb.Update(usersTableName).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(userColumns, ", "))
	if req.Role != nil {
		q = q.Set("role", *req.Role)
	}
	if req.Status != nil {
		q = q.Set("status", *req.Status)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.User{}, err
	}
	user, err := queryOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		return model.User{}, mapErr(err, userNotFound(id))
	}
	return user, nil
}
