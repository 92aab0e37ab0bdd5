package service

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/project-tracker-api/internal/access"
	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
)

type TaskService struct {
	tasks      repo.TaskRepository
	projects   repo.ProjectRepository
	evaluator  *access.Evaluator
	visibility access.Visibility
}

func NewTaskService(tasks repo.TaskRepository, projects repo.ProjectRepository, evaluator *access.Evaluator) *TaskService {
	return &TaskService{
		tasks:     tasks,
		projects:  projects,
		evaluator: evaluator,
	}
}

func (s *TaskService) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error) {
	scoped, err := s.visibility.Tasks(userID, filter)
	if err != nil {
		return nil, validationf("%v", err)
	}
	return s.tasks.List(ctx, scoped)
}

func (s *TaskService) Get(ctx context.Context, userID, id int64) (model.Task, error) {
	return s.authorize(ctx, userID, id, access.OpRead)
}

// Create adds a task owned by the caller. The referenced project is checked
// once, here; later membership changes do not touch existing tasks.
func (s *TaskService) Create(ctx context.Context, userID int64, t model.Task) (model.Task, error) {
	t.ID = 0
	t.OwnerID = userID
	if t.Category == 0 {
		t.Category = model.CategoryTask
	}
	if t.Priority == 0 {
		t.Priority = model.PriorityNone
	}
	if t.Status == 0 {
		t.Status = model.StatusBacklog
	}
	if err := s.validate(t); err != nil {
		return t, err
	}

	p, err := referencedProject(ctx, s.projects, t.ProjectID)
	if err != nil {
		return t, err
	}

	if err := s.evaluator.Evaluate(ctx, access.Request{
		UserID:   userID,
		Op:       access.OpCreate,
		Resource: access.ResourceTask,
		Project:  p,
	}); err != nil {
		return t, err
	}

	return s.tasks.Create(ctx, t)
}

func (s *TaskService) Update(ctx context.Context, userID, id int64, patch model.TaskPatch) (model.Task, error) {
	t, err := s.authorize(ctx, userID, id, access.OpUpdate)
	if err != nil {
		return t, err
	}

	t = patch.Apply(t)
	if err := s.validate(t); err != nil {
		return t, err
	}

	updated, err := s.tasks.Update(ctx, t)
	if errors.Is(err, repo.ErrorReference) {
		return t, validationf("user %d does not exist", t.OwnerID)
	}
	return updated, err
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.authorize(ctx, userID, id, access.OpDelete); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

// ProjectStats counts a project's tasks by status. Anyone who may read the
// project's tasks may read the counts.
func (s *TaskService) ProjectStats(ctx context.Context, userID, projectID int64) (model.TaskStats, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return model.TaskStats{}, err
	}
	if err := s.evaluator.Evaluate(ctx, access.Request{
		UserID:   userID,
		Op:       access.OpRead,
		Resource: access.ResourceTask,
		Project:  p,
	}); err != nil {
		return model.TaskStats{}, err
	}
	return s.tasks.GetStats(ctx, projectID)
}

func (s *TaskService) authorize(ctx context.Context, userID, id int64, op access.Operation) (model.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return t, err
	}
	p, err := s.projects.Get(ctx, t.ProjectID)
	if err != nil {
		return t, err
	}
	if err := s.evaluator.Evaluate(ctx, access.Request{
		UserID:   userID,
		Op:       op,
		Resource: access.ResourceTask,
		Project:  p,
	}); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *TaskService) validate(t model.Task) error {
	switch {
	case !t.Category.Valid():
		return validationf("category %d is out of range", t.Category)
	case !t.Priority.Valid():
		return validationf("priority %d is out of range", t.Priority)
	case !t.Status.Valid():
		return validationf("status %d is out of range", t.Status)
	}
	return nil
}
