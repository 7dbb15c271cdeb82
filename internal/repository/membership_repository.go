package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quiktik/helpdesk/internal/domain"
)

// MembershipRepository manages team membership rows. It also serves the
// authorization engine's relationship queries; the (user_id, team_id)
// unique constraint makes Add race-safe against duplicate joins.
type MembershipRepository interface {
	Add(ctx context.Context, membership *domain.TeamMembership) error
	UpdateRole(ctx context.Context, id string, role domain.MembershipRole) error
	Remove(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.TeamMembership, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.TeamMembership, error)
	ListByUser(ctx context.Context, userID string) ([]domain.TeamMembership, error)
	Exists(ctx context.Context, userID, teamID string) (bool, error)
	LedTeamIDs(ctx context.Context, userID string) ([]string, error)
	TeamIDsOf(ctx context.Context, userID string) ([]string, error)
}

type membershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository constructs repository.
func NewMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &membershipRepository{pool: pool}
}

func (r *membershipRepository) Add(ctx context.Context, membership *domain.TeamMembership) error {
	const query = `
        INSERT INTO team_memberships (user_id, team_id, role)
        VALUES ($1,$2,$3)
        RETURNING id, joined_at`
	return r.pool.QueryRow(ctx, query,
		membership.UserID,
		membership.TeamID,
		membership.Role,
	).Scan(&membership.ID, &membership.JoinedAt)
}

func (r *membershipRepository) UpdateRole(ctx context.Context, id string, role domain.MembershipRole) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE team_memberships SET role=$1 WHERE id=$2`, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *membershipRepository) Remove(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM team_memberships WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *membershipRepository) GetByID(ctx context.Context, id string) (*domain.TeamMembership, error) {
	const query = `
        SELECT id, user_id, team_id, role, joined_at
        FROM team_memberships WHERE id=$1`
	var m domain.TeamMembership
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.UserID,
		&m.TeamID,
		&m.Role,
		&m.JoinedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.TeamMembership, error) {
	const query = `
        SELECT id, user_id, team_id, role, joined_at
        FROM team_memberships WHERE team_id=$1 ORDER BY joined_at`
	return r.list(ctx, query, teamID)
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID string) ([]domain.TeamMembership, error) {
	const query = `
        SELECT id, user_id, team_id, role, joined_at
        FROM team_memberships WHERE user_id=$1 ORDER BY joined_at`
	return r.list(ctx, query, userID)
}

func (r *membershipRepository) list(ctx context.Context, query string, arg any) ([]domain.TeamMembership, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamMembership
	for rows.Next() {
		var m domain.TeamMembership
		if err := rows.Scan(&m.ID, &m.UserID, &m.TeamID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *membershipRepository) Exists(ctx context.Context, userID, teamID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM team_memberships WHERE user_id=$1 AND team_id=$2)`,
		userID, teamID,
	).Scan(&exists)
	return exists, err
}

func (r *membershipRepository) LedTeamIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT team_id FROM team_memberships WHERE user_id=$1 AND role='lead'`
	return r.teamIDs(ctx, query, userID)
}

func (r *membershipRepository) TeamIDsOf(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT team_id FROM team_memberships WHERE user_id=$1`
	return r.teamIDs(ctx, query, userID)
}

func (r *membershipRepository) teamIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
