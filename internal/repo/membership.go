package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
)

const membershipColumns = "id, project_id, subject_id, tier, location"

type MembershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

// TierOf looks up the tier userID holds on projectID. It always hits the
// database; (project_id, subject_id) is unique so at most one row matches.
func (r *MembershipRepo) TierOf(ctx context.Context, userID, projectID int64) (model.Tier, bool, error) {
	var tier int
	err := r.pool.QueryRow(ctx, `
		SELECT tier FROM project_memberships
		WHERE project_id = $1 AND subject_id = $2
	`, projectID, userID).Scan(&tier)

	err = mapError(err)
	if errors.Is(err, ErrorNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return model.Tier(tier), true, nil
}

func (r *MembershipRepo) Find(ctx context.Context, projectID, subjectID int64) (model.Membership, error) {
	return scanMembership(r.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM project_memberships
		WHERE project_id = $1 AND subject_id = $2
	`, projectID, subjectID))
}

func (r *MembershipRepo) Create(ctx context.Context, m model.Membership) (model.Membership, error) {
	created, err := insertMembership(ctx, r.pool, m)
	return created, mapError(err)
}

func insertMembership(ctx context.Context, q querier, m model.Membership) (model.Membership, error) {
	return scanMembership(q.QueryRow(ctx, `
		INSERT INTO project_memberships (project_id, subject_id, tier, location)
		VALUES ($1, $2, $3, $4)
		RETURNING `+membershipColumns,
		m.ProjectID, m.SubjectID, int(m.Tier), int(m.Location)))
}

func (r *MembershipRepo) Get(ctx context.Context, id int64) (model.Membership, error) {
	return scanMembership(r.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM project_memberships
		WHERE id = $1
	`, id))
}

func (r *MembershipRepo) List(ctx context.Context, filter model.MembershipFilter) ([]model.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+membershipColumns+`
		FROM project_memberships
		WHERE subject_id = $1
		  AND ($2::bigint IS NULL OR project_id = $2)
		  AND ($3::int IS NULL OR tier = $3)
		  AND ($4::int IS NULL OR location = $4)
		ORDER BY id
	`, filter.SubjectID, filter.ProjectID, intArg(filter.Tier), intArg(filter.Location))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]model.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// Update changes tier and location only; project and subject are fixed at creation.
func (r *MembershipRepo) Update(ctx context.Context, m model.Membership) (model.Membership, error) {
	return scanMembership(r.pool.QueryRow(ctx, `
		UPDATE project_memberships
		SET tier = $2, location = $3
		WHERE id = $1
		RETURNING `+membershipColumns,
		m.ID, int(m.Tier), int(m.Location)))
}

func (r *MembershipRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM project_memberships WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembership(row rowScanner) (model.Membership, error) {
	var (
		m              model.Membership
		tier, location int
	)
	if err := row.Scan(&m.ID, &m.ProjectID, &m.SubjectID, &tier, &location); err != nil {
		return model.Membership{}, mapError(err)
	}
	m.Tier, m.Location = model.Tier(tier), model.Location(location)
	return m, nil
}
