package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/league-engine/internal/domain/standing"
	qb "github.com/fitclash/league-engine/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) CreateBatch(ctx context.Context, standings []standing.Standing) error {
	if len(standings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range standings {
		query, args, err := qb.InsertModel("standings", standingInsertModel{
			SeasonID: item.SeasonID,
			TeamID:   item.TeamID,
			Played:   item.Played,
			Wins:     item.Wins,
			Draws:    item.Draws,
			Losses:   item.Losses,
			Points:   item.Points,
		}, "ON CONFLICT (season_public_id, team_public_id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standing %s/%s: %w", item.SeasonID, item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create standings tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) Get(ctx context.Context, seasonID, teamID string) (standing.Standing, bool, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.Eq("team_public_id", teamID),
		).
		ToSQL()
	if err != nil {
		return standing.Standing{}, false, fmt.Errorf("build get standing query: %w", err)
	}

	var row standingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standing.Standing{}, false, nil
		}
		return standing.Standing{}, false, fmt.Errorf("get standing: %w", err)
	}
	return standingFromRow(row), true, nil
}

func (r *StandingRepository) Update(ctx context.Context, item standing.Standing) error {
	query, args, err := qb.InsertModel("standings", standingInsertModel{
		SeasonID: item.SeasonID,
		TeamID:   item.TeamID,
		Played:   item.Played,
		Wins:     item.Wins,
		Draws:    item.Draws,
		Losses:   item.Losses,
		Points:   item.Points,
	}, `ON CONFLICT (season_public_id, team_public_id)
DO UPDATE SET
    played = EXCLUDED.played,
    wins = EXCLUDED.wins,
    draws = EXCLUDED.draws,
    losses = EXCLUDED.losses,
    points = EXCLUDED.points,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert standing query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standing: %w", err)
	}
	return nil
}

func (r *StandingRepository) ListBySeason(ctx context.Context, seasonID string) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(qb.Eq("season_public_id", seasonID)).
		OrderBy("points DESC", "wins DESC", "team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingFromRow(row))
	}
	return out, nil
}

func standingFromRow(row standingTableModel) standing.Standing {
	return standing.Standing{
		SeasonID: row.SeasonID,
		TeamID:   row.TeamID,
		Played:   row.Played,
		Wins:     row.Wins,
		Draws:    row.Draws,
		Losses:   row.Losses,
		Points:   row.Points,
	}
}
