package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BuzzLyutic/project-tracker-api/internal/access"
	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
)

type ProjectService struct {
	projects    repo.ProjectRepository
	memberships repo.MembershipRepository
	evaluator   *access.Evaluator
	visibility  access.Visibility
}

func NewProjectService(projects repo.ProjectRepository, memberships repo.MembershipRepository, evaluator *access.Evaluator) *ProjectService {
	return &ProjectService{
		projects:    projects,
		memberships: memberships,
		evaluator:   evaluator,
	}
}

func (s *ProjectService) List(ctx context.Context, userID int64, filter model.ProjectFilter) ([]model.ProjectView, error) {
	scoped, err := s.visibility.Projects(userID, filter)
	if err != nil {
		return nil, validationf("%v", err)
	}
	return s.projects.List(ctx, scoped)
}

func (s *ProjectService) Get(ctx context.Context, userID, id int64) (model.ProjectView, error) {
	p, err := s.authorize(ctx, userID, id, access.OpRead)
	if err != nil {
		return model.ProjectView{}, err
	}
	return s.view(ctx, userID, p)
}

func (s *ProjectService) Create(ctx context.Context, userID int64, p model.Project, idempKey string) (model.ProjectView, error) {
	p.ID = 0
	p.OwnerID = userID
	if err := s.validate(p); err != nil { // Валидация модели на корректность введенных данных
		return model.ProjectView{}, err
	}

	if err := s.evaluator.Evaluate(ctx, access.Request{
		UserID:   userID,
		Op:       access.OpCreate,
		Resource: access.ResourceProject,
		Project:  p,
	}); err != nil {
		return model.ProjectView{}, err
	}

	if idempKey != "" { // Если ключ уже использован этим пользователем, повторно проект не создаем
		existingID, err := s.projects.GetIdempotencyKey(ctx, userID, idempKey)
		if err == nil {
			return s.Get(ctx, userID, existingID)
		}
		if !errors.Is(err, repo.ErrorNotFound) {
			return model.ProjectView{}, err
		}
	}

	created, m, err := s.projects.Create(ctx, p, idempKey)
	switch {
	case idempKey != "" && errors.Is(err, repo.ErrorConflict):
		// параллельный запрос с тем же ключом успел первым
		existingID, err := s.projects.GetIdempotencyKey(ctx, userID, idempKey)
		if err != nil {
			return model.ProjectView{}, err
		}
		return s.Get(ctx, userID, existingID)
	case errors.Is(err, repo.ErrorReference):
		return model.ProjectView{}, validationf("unknown owner %d", userID)
	case err != nil:
		return model.ProjectView{}, err
	}

	return model.NewProjectView(created, &m), nil
}

func (s *ProjectService) Update(ctx context.Context, userID, id int64, patch model.ProjectPatch) (model.ProjectView, error) {
	p, err := s.authorize(ctx, userID, id, access.OpUpdate)
	if err != nil {
		return model.ProjectView{}, err
	}

	p = patch.Apply(p)
	if err := s.validate(p); err != nil {
		return model.ProjectView{}, err
	}

	updated, err := s.projects.Update(ctx, p)
	if err != nil {
		return model.ProjectView{}, err
	}
	return s.view(ctx, userID, updated)
}

func (s *ProjectService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.authorize(ctx, userID, id, access.OpDelete); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

// authorize loads the project and checks op against it. A missing project is
// repo.ErrorNotFound; an existing one the user may not touch is access.ErrDenied.
func (s *ProjectService) authorize(ctx context.Context, userID, id int64, op access.Operation) (model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return p, err
	}
	err = s.evaluator.Evaluate(ctx, access.Request{
		UserID:   userID,
		Op:       op,
		Resource: access.ResourceProject,
		Project:  p,
	})
	return p, err
}

func (s *ProjectService) view(ctx context.Context, userID int64, p model.Project) (model.ProjectView, error) {
	m, err := s.memberships.Find(ctx, p.ID, userID)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.NewProjectView(p, nil), nil
	}
	if err != nil {
		return model.ProjectView{}, err
	}
	return model.NewProjectView(p, &m), nil
}

func (s *ProjectService) validate(p model.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationf("name is required")
	}
	return nil
}
