package service

import (
	"context"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
)

type UserService struct {
	repo repo.UserRepository
}

func NewUserService(repo repo.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Ensure records an authenticated user so other rows can reference it.
func (s *UserService) Ensure(ctx context.Context, u model.User) (model.User, error) {
	if u.ID <= 0 {
		return u, validationf("user id must be positive")
	}
	return s.repo.Upsert(ctx, u)
}

func (s *UserService) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	return s.repo.List(ctx, filter)
}
