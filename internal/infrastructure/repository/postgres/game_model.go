package postgres

import (
	"database/sql"
	"time"

	"github.com/bytedance/sonic"

	"github.com/fitclash/league-engine/internal/domain/game"
)

// gameColumns lists the games columns in gameTableModel field order,
// for RETURNING clauses.
const gameColumns = "id, public_id, season_public_id, week, home_team_public_id, away_team_public_id, status, starts_at, ends_at, home_score, away_score, last_scorer, created_at, updated_at"

type gameTableModel struct {
	ID         int64          `db:"id"`
	PublicID   string         `db:"public_id"`
	SeasonID   string         `db:"season_public_id"`
	Week       int            `db:"week"`
	HomeTeamID string         `db:"home_team_public_id"`
	AwayTeamID string         `db:"away_team_public_id"`
	Status     string         `db:"status"`
	StartsAt   time.Time      `db:"starts_at"`
	EndsAt     time.Time      `db:"ends_at"`
	HomeScore  int            `db:"home_score"`
	AwayScore  int            `db:"away_score"`
	LastScorer sql.NullString `db:"last_scorer"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type gameInsertModel struct {
	PublicID   string    `db:"public_id"`
	SeasonID   string    `db:"season_public_id"`
	Week       int       `db:"week"`
	HomeTeamID string    `db:"home_team_public_id"`
	AwayTeamID string    `db:"away_team_public_id"`
	Status     string    `db:"status"`
	StartsAt   time.Time `db:"starts_at"`
	EndsAt     time.Time `db:"ends_at"`
	HomeScore  int       `db:"home_score"`
	AwayScore  int       `db:"away_score"`
}

// lastScorerPayload is the JSONB shape of games.last_scorer.
type lastScorerPayload struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Side     string    `json:"side"`
	At       time.Time `json:"at"`
}

func gameFromRow(row gameTableModel) (game.Game, error) {
	status, err := game.ParseStatus(row.Status)
	if err != nil {
		return game.Game{}, err
	}

	g := game.Game{
		ID:         row.PublicID,
		SeasonID:   row.SeasonID,
		Week:       row.Week,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		Status:     status,
		StartsAt:   row.StartsAt,
		EndsAt:     row.EndsAt,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
	}

	if row.LastScorer.Valid && row.LastScorer.String != "" {
		var payload lastScorerPayload
		if err := sonic.UnmarshalString(row.LastScorer.String, &payload); err != nil {
			return game.Game{}, err
		}
		side, err := game.ParseSide(payload.Side)
		if err != nil {
			return game.Game{}, err
		}
		g.LastScorer = &game.LastScorer{
			UserID:   payload.UserID,
			Username: payload.Username,
			Side:     side,
			At:       payload.At,
		}
	}

	return g, nil
}

func lastScorerJSON(scorer *game.LastScorer) (sql.NullString, error) {
	if scorer == nil {
		return sql.NullString{}, nil
	}
	text, err := sonic.MarshalString(lastScorerPayload{
		UserID:   scorer.UserID,
		Username: scorer.Username,
		Side:     string(scorer.Side),
		At:       scorer.At,
	})
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: text, Valid: true}, nil
}
