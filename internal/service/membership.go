package service

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/project-tracker-api/internal/access"
	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
)

type MembershipService struct {
	memberships repo.MembershipRepository
	projects    repo.ProjectRepository
	evaluator   *access.Evaluator
	visibility  access.Visibility
}

func NewMembershipService(memberships repo.MembershipRepository, projects repo.ProjectRepository, evaluator *access.Evaluator) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		projects:    projects,
		evaluator:   evaluator,
	}
}

// List returns the caller's own membership rows only, never other members'.
func (s *MembershipService) List(ctx context.Context, userID int64, filter model.MembershipFilter) ([]model.Membership, error) {
	scoped, err := s.visibility.Memberships(userID, filter)
	if err != nil {
		return nil, validationf("%v", err)
	}
	return s.memberships.List(ctx, scoped)
}

func (s *MembershipService) Get(ctx context.Context, userID, id int64) (model.Membership, error) {
	m, err := s.memberships.Get(ctx, id)
	if err != nil {
		return m, err
	}
	if err := s.evaluator.Evaluate(ctx, access.Request{
		UserID:     userID,
		Op:         access.OpRead,
		Resource:   access.ResourceMembership,
		Project:    model.Project{ID: m.ProjectID},
		Membership: &m,
	}); err != nil {
		return model.Membership{}, err
	}
	return m, nil
}

// Create grants m.SubjectID access to m.ProjectID. Tier defaults to View and
// location to Main.
func (s *MembershipService) Create(ctx context.Context, userID int64, m model.Membership) (model.Membership, error) {
	m.ID = 0
	if m.Tier == 0 {
		m.Tier = model.TierView
	}
	if m.Location == 0 {
		m.Location = model.LocationMain
	}
	if err := s.validate(m); err != nil {
		return m, err
	}
	if m.SubjectID <= 0 {
		return m, validationf("subject is required")
	}

	p, err := referencedProject(ctx, s.projects, m.ProjectID)
	if err != nil {
		return m, err
	}

	if err := s.evaluator.Evaluate(ctx, access.Request{
		UserID:   userID,
		Op:       access.OpCreate,
		Resource: access.ResourceMembership,
		Project:  p,
	}); err != nil {
		return m, err
	}

	created, err := s.memberships.Create(ctx, m)
	switch {
	case errors.Is(err, repo.ErrorConflict):
		return m, validationf("user %d is already a member of project %d", m.SubjectID, m.ProjectID)
	case errors.Is(err, repo.ErrorReference):
		return m, validationf("user %d does not exist", m.SubjectID)
	}
	return created, err
}

func (s *MembershipService) Update(ctx context.Context, userID, id int64, patch model.MembershipPatch) (model.Membership, error) {
	m, err := s.authorize(ctx, userID, id, access.OpUpdate)
	if err != nil {
		return m, err
	}

	m = patch.Apply(m)
	if err := s.validate(m); err != nil {
		return m, err
	}
	return s.memberships.Update(ctx, m)
}

func (s *MembershipService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.authorize(ctx, userID, id, access.OpDelete); err != nil {
		return err
	}
	return s.memberships.Delete(ctx, id)
}

func (s *MembershipService) authorize(ctx context.Context, userID, id int64, op access.Operation) (model.Membership, error) {
	m, err := s.memberships.Get(ctx, id)
	if err != nil {
		return m, err
	}
	p, err := s.projects.Get(ctx, m.ProjectID)
	if err != nil {
		return m, err
	}
	err = s.evaluator.Evaluate(ctx, access.Request{
		UserID:     userID,
		Op:         op,
		Resource:   access.ResourceMembership,
		Project:    p,
		Membership: &m,
	})
	return m, err
}

func (s *MembershipService) validate(m model.Membership) error {
	if !m.Tier.Valid() {
		return validationf("tier %d is out of range", m.Tier)
	}
	if !m.Location.Valid() {
		return validationf("location %d is out of range", m.Location)
	}
	return nil
}
