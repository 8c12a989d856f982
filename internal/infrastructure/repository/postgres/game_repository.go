package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitclash/league-engine/internal/domain/game"
	qb "github.com/fitclash/league-engine/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) CreateBatch(ctx context.Context, games []game.Game) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, g := range games {
		query, args, err := qb.InsertModel("games", gameInsertModel{
			PublicID:   g.ID,
			SeasonID:   g.SeasonID,
			Week:       g.Week,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
			Status:     string(g.Status),
			StartsAt:   g.StartsAt,
			EndsAt:     g.EndsAt,
			HomeScore:  g.HomeScore,
			AwayScore:  g.AwayScore,
		}, "")
		if err != nil {
			return fmt.Errorf("build insert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create games tx: %w", err)
	}
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("public_id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	g, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("decode game row: %w", err)
	}
	return g, true, nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonID string) ([]game.Game, error) {
	return r.list(ctx, qb.Eq("season_public_id", seasonID))
}

func (r *GameRepository) ListBySeasonWeek(ctx context.Context, seasonID string, week int) ([]game.Game, error) {
	return r.list(ctx,
		qb.Eq("season_public_id", seasonID),
		qb.Eq("week", week),
	)
}

func (r *GameRepository) ListByStatus(ctx context.Context, status game.Status) ([]game.Game, error) {
	return r.list(ctx, qb.Eq("status", string(status)))
}

func (r *GameRepository) ListDueForStart(ctx context.Context, now time.Time) ([]game.Game, error) {
	return r.list(ctx,
		qb.Eq("status", string(game.StatusScheduled)),
		qb.Lte("starts_at", now),
	)
}

func (r *GameRepository) ListDueForFinish(ctx context.Context, now time.Time) ([]game.Game, error) {
	return r.list(ctx,
		qb.Eq("status", string(game.StatusInProgress)),
		qb.Lte("ends_at", now),
	)
}

func (r *GameRepository) ListInProgressByTeams(ctx context.Context, teamIDs []string) ([]game.Game, error) {
	if len(teamIDs) == 0 {
		return []game.Game{}, nil
	}

	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("status", string(game.StatusInProgress)),
			qb.Expr("(home_team_public_id = ANY(?) OR away_team_public_id = ANY(?))",
				pq.Array(teamIDs), pq.Array(teamIDs)),
		).
		OrderBy("week", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list live games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list live games: %w", err)
	}
	return gamesFromRows(rows)
}

func (r *GameRepository) TransitionStatus(ctx context.Context, gameID string, from, to game.Status) (game.Game, bool, error) {
	if !game.ValidTransition(from, to) {
		g, _, err := r.GetByID(ctx, gameID)
		return g, false, err
	}

	query, args, err := qb.Update("games").
		Set("status", string(to)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.Eq("status", string(from)),
		).
		Suffix("RETURNING " + gameColumns).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build transition game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			// Lost the compare-and-set; report the current state.
			g, _, getErr := r.GetByID(ctx, gameID)
			return g, false, getErr
		}
		return game.Game{}, false, fmt.Errorf("transition game: %w", err)
	}

	g, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("decode game row: %w", err)
	}
	return g, true, nil
}

func (r *GameRepository) ForceStart(ctx context.Context, gameID string, startsAt, endsAt time.Time) (game.Game, bool, error) {
	query, args, err := qb.Update("games").
		Set("status", string(game.StatusInProgress)).
		Set("starts_at", startsAt).
		Set("ends_at", endsAt).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.Eq("status", string(game.StatusScheduled)),
		).
		Suffix("RETURNING " + gameColumns).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build force start query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			g, _, getErr := r.GetByID(ctx, gameID)
			return g, false, getErr
		}
		return game.Game{}, false, fmt.Errorf("force start game: %w", err)
	}

	g, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("decode game row: %w", err)
	}
	return g, true, nil
}

func (r *GameRepository) list(ctx context.Context, conditions ...qb.Condition) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(conditions...).
		OrderBy("week", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return gamesFromRows(rows)
}

func gamesFromRows(rows []gameTableModel) ([]game.Game, error) {
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		g, err := gameFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode game row: %w", err)
		}
		out = append(out, g)
	}
	return out, nil
}
