package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Upsert records a user seen in a verified token so that projects,
// memberships and tasks can reference it.
func (r *UserRepo) Upsert(ctx context.Context, u model.User) (model.User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
		RETURNING id, username
	`, u.ID, u.Username).Scan(&u.ID, &u.Username)
	return u, mapError(err)
}

func (r *UserRepo) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username
		FROM users
		WHERE ($1::text IS NULL OR username = $1)
		ORDER BY id
	`, filter.Username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
