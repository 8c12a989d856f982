package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/league-engine/internal/domain/season"
	qb "github.com/fitclash/league-engine/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) error {
	query, args, err := qb.InsertModel("seasons", seasonInsertModel{
		PublicID:        item.ID,
		LeagueID:        item.LeagueID,
		Name:            item.Name,
		StartsAt:        item.StartsAt,
		EndsAt:          item.EndsAt,
		GameDurationSec: int64(item.GameDuration / time.Second),
		EvalEnabled:     item.Evaluation.Enabled,
		EvalTimezone:    item.Evaluation.Timezone,
		TeamIDs:         item.TeamIDs,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert season: %w", err)
	}
	return nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) ListByLeague(ctx context.Context, leagueID string) ([]season.Season, error) {
	return r.list(ctx, []qb.Condition{
		qb.Eq("league_public_id", leagueID),
		qb.IsNull("deleted_at"),
	})
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	return r.list(ctx, []qb.Condition{qb.IsNull("deleted_at")})
}

func (r *SeasonRepository) list(ctx context.Context, conditions []qb.Condition) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(conditions...).
		OrderBy("starts_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:           row.PublicID,
		LeagueID:     row.LeagueID,
		Name:         row.Name,
		StartsAt:     row.StartsAt,
		EndsAt:       row.EndsAt,
		GameDuration: time.Duration(row.GameDurationSec) * time.Second,
		Evaluation: season.EvaluationPolicy{
			Enabled:  row.EvalEnabled,
			Timezone: row.EvalTimezone,
		},
		TeamIDs: row.TeamIDs,
	}
}
