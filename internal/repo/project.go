package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

type ProjectRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

// Create inserts the project and its owner's Share membership in one
// transaction. A non-empty idempKey is claimed in the same transaction; if
// another request already holds it for this owner, nothing is written and
// ErrorConflict is returned.
func (r *ProjectRepo) Create(ctx context.Context, p model.Project, idempKey string) (model.Project, model.Membership, error) {
	var m model.Membership
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO projects (name, description, owner_id)
			VALUES ($1, $2, $3)
			RETURNING id, name, description, owner_id
		`, p.Name, p.Description, p.OwnerID).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID); err != nil {
			return err
		}

		var err error
		m, err = insertMembership(ctx, tx, model.Membership{
			ProjectID: p.ID,
			SubjectID: p.OwnerID,
			Tier:      model.TierShare,
			Location:  model.LocationMain,
		})
		if err != nil || idempKey == "" {
			return err
		}

		// Конкурентный запрос с тем же ключом ждет здесь коммита победителя
		cmd, err := tx.Exec(ctx, `
			INSERT INTO idempotency_keys (user_id, key, resource_id) VALUES ($1, $2, $3)
			ON CONFLICT (user_id, key) DO NOTHING
		`, p.OwnerID, idempKey, p.ID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("%w: idempotency key %q", ErrorConflict, idempKey)
		}
		return nil
	})
	if err != nil {
		return model.Project{}, model.Membership{}, mapError(err)
	}
	return p, m, nil
}

func (r *ProjectRepo) Get(ctx context.Context, id int64) (model.Project, error) {
	var p model.Project
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, owner_id
		FROM projects
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID)
	return p, mapError(err)
}

// List returns the projects visible to filter.VisibleTo together with that
// user's membership row, if any. A project is visible when the user holds a
// membership (in filter.Location, when set) or owns it and no location was
// requested.
func (r *ProjectRepo) List(ctx context.Context, filter model.ProjectFilter) ([]model.ProjectView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.owner_id, m.id, m.tier, m.location
		FROM projects p
		LEFT JOIN project_memberships m ON m.project_id = p.id AND m.subject_id = $1
		WHERE (
			(m.id IS NOT NULL AND ($2::int IS NULL OR m.location = $2))
			OR ($2::int IS NULL AND p.owner_id = $1)
		)
		AND ($3::text IS NULL OR p.name = $3)
		ORDER BY p.id
	`, filter.VisibleTo, intArg(filter.Location), filter.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]model.ProjectView, 0)
	for rows.Next() {
		var (
			p        model.Project
			mID      *int64
			tier     *int
			location *int
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &mID, &tier, &location); err != nil {
			return nil, err
		}

		var m *model.Membership
		if mID != nil {
			m = &model.Membership{
				ID:        *mID,
				ProjectID: p.ID,
				SubjectID: filter.VisibleTo,
				Tier:      model.Tier(*tier),
				Location:  model.Location(*location),
			}
		}
		projects = append(projects, model.NewProjectView(p, m))
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Update(ctx context.Context, p model.Project) (model.Project, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE projects
		SET name = $2, description = $3
		WHERE id = $1
		RETURNING id, name, description, owner_id
	`, p.ID, p.Name, p.Description).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID)
	return p, mapError(err)
}

// Delete removes the project; memberships, tasks and idempotency keys go with it.
func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *ProjectRepo) GetIdempotencyKey(ctx context.Context, userID int64, key string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT resource_id FROM idempotency_keys WHERE user_id = $1 AND key = $2
	`, userID, key).Scan(&id)
	return id, mapError(err)
}
