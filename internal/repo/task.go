package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

const taskColumns = "id, project_id, owner_id, name, description, category, priority, status"

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, owner_id, name, description, category, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns,
		t.ProjectID, t.OwnerID, t.Name, t.Description, int(t.Category), int(t.Priority), int(t.Status)))
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id))
}

// List returns tasks of every project filter.VisibleTo holds a membership on.
func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id IN (SELECT project_id FROM project_memberships WHERE subject_id = $1)
		  AND ($2::bigint IS NULL OR project_id = $2)
		  AND ($3::int IS NULL OR category = $3)
		  AND ($4::int IS NULL OR priority = $4)
		  AND ($5::int IS NULL OR status = $5)
		ORDER BY id
	`, filter.VisibleTo, filter.ProjectID, intArg(filter.Category), intArg(filter.Priority), intArg(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update writes every mutable column. project_id is never changed.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET owner_id = $2, name = $3, description = $4, category = $5, priority = $6, status = $7
		WHERE id = $1
		RETURNING `+taskColumns,
		t.ID, t.OwnerID, t.Name, t.Description, int(t.Category), int(t.Priority), int(t.Status)))
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) GetStats(ctx context.Context, projectID int64) (model.TaskStats, error) {
	stats := model.TaskStats{
		ProjectID: projectID,
		ByStatus:  make(map[string]int),
	}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM tasks
		WHERE project_id = $1
		GROUP BY status
	`, projectID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, err
		}
		stats.ByStatus[model.Status(status).String()] = count
		stats.TotalTasks += count
	}
	return stats, rows.Err()
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t                          model.Task
		category, priority, status int
	)
	if err := row.Scan(&t.ID, &t.ProjectID, &t.OwnerID, &t.Name, &t.Description, &category, &priority, &status); err != nil {
		return model.Task{}, mapError(err)
	}
	t.Category, t.Priority, t.Status = model.Category(category), model.Priority(priority), model.Status(status)
	return t, nil
}
