// Package testutil starts throwaway Postgres instances for integration tests.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

// SetupTestDB создает тестовую БД с помощью testcontainers
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres-backed test in short mode")
	}
	ctx := context.Background()

	// Находим путь к миграциям
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	migrationsPath := filepath.Join(projectRoot, "migrations")

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithInitScripts(filepath.Join(migrationsPath, "001_init.up.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// TruncateTables очищает все таблицы
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE idempotency_keys, tasks, project_memberships, projects, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SeedUsers inserts users with ids 1..len(names).
func SeedUsers(t *testing.T, pool *pgxpool.Pool, names ...string) []model.User {
	t.Helper()

	users := make([]model.User, 0, len(names))
	for i, name := range names {
		u := model.User{ID: int64(i + 1), Username: name}
		if _, err := pool.Exec(context.Background(),
			"INSERT INTO users (id, username) VALUES ($1, $2)", u.ID, u.Username); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
		users = append(users, u)
	}
	return users
}

// SeedProject inserts a project without the owner's membership row, which
// the service layer would normally create.
func SeedProject(t *testing.T, pool *pgxpool.Pool, name string, ownerID int64) model.Project {
	t.Helper()

	p := model.Project{Name: name, OwnerID: ownerID}
	err := pool.QueryRow(context.Background(), `
		INSERT INTO projects (name, owner_id) VALUES ($1, $2) RETURNING id
	`, name, ownerID).Scan(&p.ID)
	if err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}
	return p
}

// SeedMembership grants subjectID the tier on projectID.
func SeedMembership(t *testing.T, pool *pgxpool.Pool, projectID, subjectID int64, tier model.Tier) model.Membership {
	t.Helper()

	m := model.Membership{ProjectID: projectID, SubjectID: subjectID, Tier: tier, Location: model.LocationMain}
	err := pool.QueryRow(context.Background(), `
		INSERT INTO project_memberships (project_id, subject_id, tier) VALUES ($1, $2, $3) RETURNING id
	`, projectID, subjectID, int(tier)).Scan(&m.ID)
	if err != nil {
		t.Fatalf("Failed to seed membership: %v", err)
	}
	return m
}
