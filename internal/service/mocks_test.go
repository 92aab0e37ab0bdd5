package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker-api/internal/access"
	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

// MockProjectRepository - мок репозитория проектов
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p model.Project, idempKey string) (model.Project, model.Membership, error) {
	args := m.Called(ctx, p, idempKey)
	return args.Get(0).(model.Project), args.Get(1).(model.Membership), args.Error(2)
}

func (m *MockProjectRepository) Get(ctx context.Context, id int64) (model.Project, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, filter model.ProjectFilter) ([]model.ProjectView, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.ProjectView), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, p model.Project) (model.Project, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) GetIdempotencyKey(ctx context.Context, userID int64, key string) (int64, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(int64), args.Error(1)
}

// MockMembershipRepository - мок репозитория участников; он же служит индексом прав
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) TierOf(ctx context.Context, userID, projectID int64) (model.Tier, bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).(model.Tier), args.Bool(1), args.Error(2)
}

func (m *MockMembershipRepository) Find(ctx context.Context, projectID, subjectID int64) (model.Membership, error) {
	args := m.Called(ctx, projectID, subjectID)
	return args.Get(0).(model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Create(ctx context.Context, ms model.Membership) (model.Membership, error) {
	args := m.Called(ctx, ms)
	return args.Get(0).(model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Get(ctx context.Context, id int64) (model.Membership, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context, filter model.MembershipFilter) ([]model.Membership, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Update(ctx context.Context, ms model.Membership) (model.Membership, error) {
	args := m.Called(ctx, ms)
	return args.Get(0).(model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, id int64) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) GetStats(ctx context.Context, projectID int64) (model.TaskStats, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(model.TaskStats), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.User), args.Error(1)
}

const (
	ownerID    int64 = 1
	memberID   int64 = 2
	strangerID int64 = 3
)

var alpha = model.Project{ID: 10, Name: "Alpha", Description: "first", OwnerID: ownerID}

func newEvaluator(memberships *MockMembershipRepository) *access.Evaluator {
	return access.NewEvaluator(memberships, zap.NewNop())
}

// holds makes TierOf report tier for (user, alpha).
func holds(m *MockMembershipRepository, user int64, tier model.Tier) {
	m.On("TierOf", mock.Anything, user, alpha.ID).Return(tier, true, nil)
}

// lacks makes TierOf report no row for (user, alpha).
func lacks(m *MockMembershipRepository, user int64) {
	m.On("TierOf", mock.Anything, user, alpha.ID).Return(model.Tier(0), false, nil)
}
