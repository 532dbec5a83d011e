package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

// RegisterUser creates an active student; roles are granted later by an admin.
func (s *Service) RegisterUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	return s.repo.CreateUser(ctx, model.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      model.RoleStudent,
		Status:    model.UserStatusActive,
		CreatedAt: s.clock.Now(),
	})
}

func (s *Service) GetUser(ctx context.Context, caller model.Caller, id int64) (model.User, error) {
	if !caller.CanActFor(id) {
		return model.User{}, errs.Forbidden("user %d is not visible", id)
	}
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, page, size int) ([]model.User, error) {
	return s.repo.ListUsers(ctx, page, size)
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	if req.Role == nil && req.Status == nil {
		return model.User{}, errs.Validation("nothing to update")
	}
	return s.repo.UpdateUser(ctx, id, req)
}
