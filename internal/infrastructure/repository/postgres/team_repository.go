package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/league-engine/internal/domain/team"
	qb "github.com/fitclash/league-engine/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		PublicID: item.ID,
		LeagueID: item.LeagueID,
		Name:     item.Name,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) AddMember(ctx context.Context, member team.Membership) error {
	query, args, err := qb.InsertModel("team_members", membershipInsertModel{
		TeamID:   member.TeamID,
		UserID:   member.UserID,
		Username: member.Username,
		JoinedAt: member.JoinedAt,
		Active:   member.Active,
	}, `ON CONFLICT (team_public_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    username = EXCLUDED.username,
    active = EXCLUDED.active`)
	if err != nil {
		return fmt.Errorf("build insert membership query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (r *TeamRepository) ListActiveMembers(ctx context.Context, teamID string) ([]team.Membership, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team members query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	out := make([]team.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) ListActiveMembershipsByUser(ctx context.Context, userID string) ([]team.Membership, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user memberships: %w", err)
	}

	out := make([]team.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipFromRow(row))
	}
	return out, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:       row.PublicID,
		LeagueID: row.LeagueID,
		Name:     row.Name,
	}
}

func membershipFromRow(row membershipTableModel) team.Membership {
	return team.Membership{
		TeamID:   row.TeamID,
		UserID:   row.UserID,
		Username: row.Username,
		JoinedAt: row.JoinedAt,
		Active:   row.Active,
	}
}
