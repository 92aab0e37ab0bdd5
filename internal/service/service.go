// Package service orchestrates visibility, permission checks and persistence
// for every resource.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// referencedProject loads the project named by a create payload. A missing
// project is a validation failure, reported before any permission check.
func referencedProject(ctx context.Context, projects repo.ProjectRepository, id int64) (model.Project, error) {
	if id <= 0 {
		return model.Project{}, validationf("project is required")
	}
	p, err := projects.Get(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return p, validationf("project %d does not exist", id)
	}
	return p, err
}
