package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/project-tracker-api/internal/access"
	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
)

func newProjectService() (*ProjectService, *MockProjectRepository, *MockMembershipRepository) {
	projects := new(MockProjectRepository)
	memberships := new(MockMembershipRepository)
	return NewProjectService(projects, memberships, newEvaluator(memberships)), projects, memberships
}

// errConnReset stands in for a storage failure that is not a missing row.
var errConnReset = errors.New("connection reset")

func TestProjectService_Create(t *testing.T) {
	ownerRow := model.Membership{ID: 5, ProjectID: alpha.ID, SubjectID: ownerID, Tier: model.TierShare, Location: model.LocationMain}

	tests := []struct {
		name      string
		project   model.Project
		idempKey  string
		setupMock func(*MockProjectRepository, *MockMembershipRepository)
		wantErr   error
		check     func(*testing.T, model.ProjectView)
	}{
		{
			name:    "creator gets share membership",
			project: model.Project{Name: "Alpha", Description: "first", OwnerID: 99},
			setupMock: func(p *MockProjectRepository, _ *MockMembershipRepository) {
				p.On("Create", mock.Anything, model.Project{Name: "Alpha", Description: "first", OwnerID: ownerID}, "").
					Return(alpha, ownerRow, nil)
			},
			check: func(t *testing.T, v model.ProjectView) {
				assert.Equal(t, alpha.ID, v.ID)
				assert.Equal(t, ownerID, v.OwnerID)
				require.NotNil(t, v.Tier)
				assert.Equal(t, model.TierShare, *v.Tier)
				require.NotNil(t, v.Membership)
				assert.Equal(t, ownerRow.ID, *v.Membership)
			},
		},
		{
			name:      "blank name",
			project:   model.Project{Name: "   "},
			setupMock: func(*MockProjectRepository, *MockMembershipRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:     "idempotency - key exists",
			project:  model.Project{Name: "Alpha"},
			idempKey: "key-123",
			setupMock: func(p *MockProjectRepository, m *MockMembershipRepository) {
				p.On("GetIdempotencyKey", mock.Anything, ownerID, "key-123").Return(alpha.ID, nil)
				p.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
				m.On("Find", mock.Anything, alpha.ID, ownerID).Return(ownerRow, nil)
			},
			check: func(t *testing.T, v model.ProjectView) {
				assert.Equal(t, alpha.ID, v.ID)
			},
		},
		{
			name:     "idempotency - new key",
			project:  model.Project{Name: "Alpha", Description: "first"},
			idempKey: "key-456",
			setupMock: func(p *MockProjectRepository, _ *MockMembershipRepository) {
				p.On("GetIdempotencyKey", mock.Anything, ownerID, "key-456").Return(int64(0), repo.ErrorNotFound)
				p.On("Create", mock.Anything, mock.Anything, "key-456").Return(alpha, ownerRow, nil)
			},
		},
		{
			name:     "idempotency - lookup fails",
			project:  model.Project{Name: "Alpha"},
			idempKey: "key-789",
			setupMock: func(p *MockProjectRepository, _ *MockMembershipRepository) {
				p.On("GetIdempotencyKey", mock.Anything, ownerID, "key-789").Return(int64(0), errConnReset)
			},
			wantErr: errConnReset,
		},
		{
			name:     "idempotency - concurrent request won",
			project:  model.Project{Name: "Alpha"},
			idempKey: "key-race",
			setupMock: func(p *MockProjectRepository, m *MockMembershipRepository) {
				p.On("GetIdempotencyKey", mock.Anything, ownerID, "key-race").Return(int64(0), repo.ErrorNotFound).Once()
				p.On("Create", mock.Anything, mock.Anything, "key-race").
					Return(model.Project{}, model.Membership{}, fmt.Errorf("%w: idempotency key", repo.ErrorConflict))
				p.On("GetIdempotencyKey", mock.Anything, ownerID, "key-race").Return(alpha.ID, nil).Once()
				p.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
				m.On("Find", mock.Anything, alpha.ID, ownerID).Return(ownerRow, nil)
			},
			check: func(t *testing.T, v model.ProjectView) {
				assert.Equal(t, alpha.ID, v.ID)
			},
		},
		{
			name:    "unknown owner",
			project: model.Project{Name: "Alpha"},
			setupMock: func(p *MockProjectRepository, _ *MockMembershipRepository) {
				p.On("Create", mock.Anything, mock.Anything, "").Return(model.Project{}, model.Membership{}, repo.ErrorReference)
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, projects, memberships := newProjectService()
			tt.setupMock(projects, memberships)

			view, err := svc.Create(context.Background(), ownerID, tt.project, tt.idempKey)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				if tt.check != nil {
					tt.check(t, view)
				}
			}
			projects.AssertExpectations(t)
			memberships.AssertExpectations(t)
		})
	}
}

func TestProjectService_Get(t *testing.T) {
	t.Run("owner without membership row", func(t *testing.T) {
		svc, projects, memberships := newProjectService()
		projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
		memberships.On("Find", mock.Anything, alpha.ID, ownerID).Return(model.Membership{}, repo.ErrorNotFound)

		view, err := svc.Get(context.Background(), ownerID, alpha.ID)
		require.NoError(t, err)
		assert.Equal(t, alpha, view.Project)
		assert.Nil(t, view.Membership)
		memberships.AssertNotCalled(t, "TierOf", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("view member", func(t *testing.T) {
		svc, projects, memberships := newProjectService()
		row := model.Membership{ID: 8, ProjectID: alpha.ID, SubjectID: memberID, Tier: model.TierView, Location: model.LocationArchive}
		projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
		holds(memberships, memberID, model.TierView)
		memberships.On("Find", mock.Anything, alpha.ID, memberID).Return(row, nil)

		view, err := svc.Get(context.Background(), memberID, alpha.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Location)
		assert.Equal(t, model.LocationArchive, *view.Location)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc, projects, memberships := newProjectService()
		projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
		lacks(memberships, strangerID)

		_, err := svc.Get(context.Background(), strangerID, alpha.ID)
		assert.ErrorIs(t, err, access.ErrDenied)
	})

	t.Run("missing project is not found", func(t *testing.T) {
		svc, projects, _ := newProjectService()
		projects.On("Get", mock.Anything, int64(404)).Return(model.Project{}, repo.ErrorNotFound)

		_, err := svc.Get(context.Background(), strangerID, 404)
		assert.ErrorIs(t, err, repo.ErrorNotFound)
		assert.NotErrorIs(t, err, access.ErrDenied)
	})
}

func TestProjectService_Update(t *testing.T) {
	newDescription := "Project 1 New Description"
	patch := model.ProjectPatch{Description: &newDescription}

	t.Run("owner", func(t *testing.T) {
		svc, projects, memberships := newProjectService()
		want := alpha
		want.Description = newDescription
		projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
		projects.On("Update", mock.Anything, want).Return(want, nil)
		memberships.On("Find", mock.Anything, alpha.ID, ownerID).Return(model.Membership{}, repo.ErrorNotFound)

		view, err := svc.Update(context.Background(), ownerID, alpha.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, newDescription, view.Description)
	})

	t.Run("share member is not owner", func(t *testing.T) {
		svc, projects, memberships := newProjectService()
		projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)

		_, err := svc.Update(context.Background(), memberID, alpha.ID, patch)
		assert.ErrorIs(t, err, access.ErrDenied)
		projects.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		memberships.AssertNotCalled(t, "TierOf", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank name", func(t *testing.T) {
		svc, projects, _ := newProjectService()
		blank := ""
		projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)

		_, err := svc.Update(context.Background(), ownerID, alpha.ID, model.ProjectPatch{Name: &blank})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestProjectService_Delete(t *testing.T) {
	svc, projects, _ := newProjectService()
	projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
	projects.On("Delete", mock.Anything, alpha.ID).Return(nil).Once()

	assert.ErrorIs(t, svc.Delete(context.Background(), memberID, alpha.ID), access.ErrDenied)
	assert.NoError(t, svc.Delete(context.Background(), ownerID, alpha.ID))
	projects.AssertExpectations(t)
}

func TestProjectService_List(t *testing.T) {
	svc, projects, _ := newProjectService()
	archive := model.LocationArchive
	projects.On("List", mock.Anything, model.ProjectFilter{VisibleTo: memberID, Location: &archive}).
		Return([]model.ProjectView{model.NewProjectView(alpha, nil)}, nil)

	views, err := svc.List(context.Background(), memberID, model.ProjectFilter{VisibleTo: ownerID, Location: &archive})
	require.NoError(t, err)
	assert.Len(t, views, 1)
	projects.AssertExpectations(t)

	bad := model.Location(7)
	_, err = svc.List(context.Background(), memberID, model.ProjectFilter{Location: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

// A creates Alpha; B is denied until A grants View, after which B may read
// but still not patch.
func TestProjectService_GrantScenario(t *testing.T) {
	svc, projects, memberships := newProjectService()
	projects.On("Get", mock.Anything, alpha.ID).Return(alpha, nil)
	memberships.On("TierOf", mock.Anything, memberID, alpha.ID).Return(model.Tier(0), false, nil).Once()
	memberships.On("TierOf", mock.Anything, memberID, alpha.ID).Return(model.TierView, true, nil)
	memberships.On("Find", mock.Anything, alpha.ID, memberID).
		Return(model.Membership{ID: 9, ProjectID: alpha.ID, SubjectID: memberID, Tier: model.TierView, Location: model.LocationMain}, nil)

	ctx := context.Background()
	_, err := svc.Get(ctx, memberID, alpha.ID)
	assert.ErrorIs(t, err, access.ErrDenied)

	// grant happens here
	_, err = svc.Get(ctx, memberID, alpha.ID)
	assert.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(ctx, memberID, alpha.ID, model.ProjectPatch{Name: &name})
	assert.ErrorIs(t, err, access.ErrDenied)
}
