package repo

import (
	"context"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

type UserRepository interface {
	Upsert(ctx context.Context, u model.User) (model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)
}

// ProjectRepository определяет интерфейс для работы с проектами
type ProjectRepository interface {
	// Create inserts the project, its owner's Share membership and, when idempKey
	// is set, the idempotency key in one transaction.
	Create(ctx context.Context, p model.Project, idempKey string) (model.Project, model.Membership, error)
	Get(ctx context.Context, id int64) (model.Project, error)
	List(ctx context.Context, filter model.ProjectFilter) ([]model.ProjectView, error)
	Update(ctx context.Context, p model.Project) (model.Project, error)
	Delete(ctx context.Context, id int64) error
	GetIdempotencyKey(ctx context.Context, userID int64, key string) (int64, error)
}

type MembershipRepository interface {
	TierOf(ctx context.Context, userID, projectID int64) (model.Tier, bool, error)
	Find(ctx context.Context, projectID, subjectID int64) (model.Membership, error)
	Create(ctx context.Context, m model.Membership) (model.Membership, error)
	Get(ctx context.Context, id int64) (model.Membership, error)
	List(ctx context.Context, filter model.MembershipFilter) ([]model.Membership, error)
	Update(ctx context.Context, m model.Membership) (model.Membership, error)
	Delete(ctx context.Context, id int64) error
}

type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	GetStats(ctx context.Context, projectID int64) (model.TaskStats, error)
}
