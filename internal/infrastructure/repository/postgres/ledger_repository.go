package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/ledger"
	qb "github.com/fitclash/league-engine/internal/platform/querybuilder"
)

// LedgerRepository keeps score events and the games' denormalized
// aggregates consistent by serializing every mutation of a game behind
// a row lock on the game itself.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) AppendEvent(ctx context.Context, event ledger.ScoreEvent) (game.Game, bool, error) {
	if err := event.Validate(); err != nil {
		return game.Game{}, false, err
	}

	breakdown, err := sonic.MarshalString(event.Breakdown)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("encode breakdown: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("begin tx append event: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, err := lockGame(ctx, tx, event.GameID)
	if err != nil {
		return game.Game{}, false, err
	}

	insertQuery, insertArgs, err := qb.InsertModel("score_events", scoreEventInsertModel{
		PublicID:   event.ID,
		GameID:     event.GameID,
		UserID:     event.UserID,
		Username:   event.Username,
		TeamID:     event.TeamID,
		Side:       string(event.Side),
		Points:     event.Points,
		Breakdown:  breakdown,
		WorkoutRef: event.WorkoutRef,
		OccurredAt: event.OccurredAt,
	}, "ON CONFLICT (workout_ref) DO NOTHING")
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build insert score event query: %w", err)
	}

	result, err := tx.ExecContext(ctx, insertQuery, insertArgs...)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("insert score event: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("score event rows affected: %w", err)
	}
	if inserted == 0 {
		// Another event already holds this workout reference.
		return current, false, nil
	}

	scoreColumn := "home_score"
	if event.Side == game.SideAway {
		scoreColumn = "away_score"
	}
	lastScorer, err := lastScorerJSON(&game.LastScorer{
		UserID:   event.UserID,
		Username: event.Username,
		Side:     event.Side,
		At:       event.OccurredAt,
	})
	if err != nil {
		return game.Game{}, false, fmt.Errorf("encode last scorer: %w", err)
	}

	updateQuery, updateArgs, err := qb.Update("games").
		SetExpr(scoreColumn, scoreColumn+" + ?", event.Points).
		Set("last_scorer", lastScorer).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", event.GameID)).
		Suffix("RETURNING " + gameColumns).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build bump aggregate query: %w", err)
	}

	var row gameTableModel
	if err := tx.GetContext(ctx, &row, updateQuery, updateArgs...); err != nil {
		return game.Game{}, false, fmt.Errorf("bump game aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return game.Game{}, false, fmt.Errorf("commit append event tx: %w", err)
	}

	updated, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("decode game row: %w", err)
	}
	return updated, true, nil
}

func (r *LedgerRepository) RemoveByWorkoutRefs(ctx context.Context, workoutRefs []string) ([]game.Game, error) {
	if len(workoutRefs) == 0 {
		return []game.Game{}, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx remove events: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Lock every affected game up front, in a stable order, so
	// concurrent removals and appends cannot deadlock.
	var gameIDs []string
	err = tx.SelectContext(ctx, &gameIDs,
		`SELECT DISTINCT game_public_id FROM score_events WHERE workout_ref = ANY($1) ORDER BY game_public_id`,
		pq.Array(workoutRefs))
	if err != nil {
		return nil, fmt.Errorf("find affected games: %w", err)
	}
	if len(gameIDs) == 0 {
		return []game.Game{}, nil
	}
	for _, gameID := range gameIDs {
		if _, err := lockGame(ctx, tx, gameID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM score_events WHERE workout_ref = ANY($1)`,
		pq.Array(workoutRefs)); err != nil {
		return nil, fmt.Errorf("delete score events: %w", err)
	}

	out := make([]game.Game, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		var row gameTableModel
		err := tx.GetContext(ctx, &row, `
UPDATE games SET
    home_score = (SELECT COALESCE(SUM(points), 0) FROM score_events WHERE game_public_id = $1 AND team_side = 'home'),
    away_score = (SELECT COALESCE(SUM(points), 0) FROM score_events WHERE game_public_id = $1 AND team_side = 'away'),
    updated_at = NOW()
WHERE public_id = $1
RETURNING `+gameColumns, gameID)
		if err != nil {
			return nil, fmt.Errorf("resum game %s: %w", gameID, err)
		}
		g, err := gameFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode game row: %w", err)
		}
		out = append(out, g)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit remove events tx: %w", err)
	}
	return out, nil
}

func (r *LedgerRepository) AdjustAggregate(ctx context.Context, gameID string, side game.Side, delta int) (game.Game, error) {
	scoreColumn := "home_score"
	if side == game.SideAway {
		scoreColumn = "away_score"
	}

	query, args, err := qb.Update("games").
		SetExpr(scoreColumn, "GREATEST(0, "+scoreColumn+" + ?)", delta).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", gameID)).
		Suffix("RETURNING " + gameColumns).
		ToSQL()
	if err != nil {
		return game.Game{}, fmt.Errorf("build adjust aggregate query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, fmt.Errorf("game %s not found", gameID)
		}
		return game.Game{}, fmt.Errorf("adjust game aggregate: %w", err)
	}
	return gameFromRow(row)
}

func (r *LedgerRepository) SumsByUser(ctx context.Context, gameID string) ([]ledger.UserTotal, error) {
	query, args, err := qb.Select(
		"user_id",
		"MAX(username) AS username",
		"MAX(team_public_id) AS team_public_id",
		"MAX(team_side) AS team_side",
		"COALESCE(SUM(points), 0) AS points",
		"COUNT(*) AS events",
		"MAX(occurred_at) AS last_at",
	).From("score_events").
		Where(qb.Eq("game_public_id", gameID)).
		GroupBy("user_id").
		OrderBy("points DESC", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build user totals query: %w", err)
	}

	var rows []userTotalRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select user totals: %w", err)
	}

	out := make([]ledger.UserTotal, 0, len(rows))
	for _, row := range rows {
		side, err := game.ParseSide(row.Side)
		if err != nil {
			return nil, err
		}
		out = append(out, ledger.UserTotal{
			UserID:   row.UserID,
			Username: row.Username,
			TeamID:   row.TeamID,
			Side:     side,
			Points:   row.Points,
			Events:   row.Events,
			LastAt:   row.LastAt,
		})
	}
	return out, nil
}

func (r *LedgerRepository) ListByGame(ctx context.Context, gameID string) ([]ledger.ScoreEvent, error) {
	query, args, err := qb.Select("*").From("score_events").
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("occurred_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list score events query: %w", err)
	}

	var rows []scoreEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list score events: %w", err)
	}

	out := make([]ledger.ScoreEvent, 0, len(rows))
	for _, row := range rows {
		event, err := scoreEventFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode score event row: %w", err)
		}
		out = append(out, event)
	}
	return out, nil
}

func (r *LedgerRepository) CountBySide(ctx context.Context, gameID string, side game.Side) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("score_events").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("team_side", string(side)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count side events query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count side events: %w", err)
	}
	return count, nil
}

// lockGame takes the game's row lock for the rest of the transaction.
func lockGame(ctx context.Context, tx *sqlx.Tx, gameID string) (game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("public_id", gameID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return game.Game{}, fmt.Errorf("build lock game query: %w", err)
	}

	var row gameTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, fmt.Errorf("game %s not found", gameID)
		}
		return game.Game{}, fmt.Errorf("lock game: %w", err)
	}
	return gameFromRow(row)
}
