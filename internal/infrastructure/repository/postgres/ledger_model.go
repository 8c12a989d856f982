package postgres

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/ledger"
)

type scoreEventTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	GameID     string    `db:"game_public_id"`
	UserID     string    `db:"user_id"`
	Username   string    `db:"username"`
	TeamID     string    `db:"team_public_id"`
	Side       string    `db:"team_side"`
	Points     int       `db:"points"`
	Breakdown  string    `db:"breakdown"`
	WorkoutRef string    `db:"workout_ref"`
	OccurredAt time.Time `db:"occurred_at"`
	CreatedAt  time.Time `db:"created_at"`
}

type scoreEventInsertModel struct {
	PublicID   string    `db:"public_id"`
	GameID     string    `db:"game_public_id"`
	UserID     string    `db:"user_id"`
	Username   string    `db:"username"`
	TeamID     string    `db:"team_public_id"`
	Side       string    `db:"team_side"`
	Points     int       `db:"points"`
	Breakdown  string    `db:"breakdown"`
	WorkoutRef string    `db:"workout_ref"`
	OccurredAt time.Time `db:"occurred_at"`
}

type userTotalRowModel struct {
	UserID   string    `db:"user_id"`
	Username string    `db:"username"`
	TeamID   string    `db:"team_public_id"`
	Side     string    `db:"team_side"`
	Points   int       `db:"points"`
	Events   int       `db:"events"`
	LastAt   time.Time `db:"last_at"`
}

func scoreEventFromRow(row scoreEventTableModel) (ledger.ScoreEvent, error) {
	side, err := game.ParseSide(row.Side)
	if err != nil {
		return ledger.ScoreEvent{}, err
	}

	var breakdown ledger.Breakdown
	if row.Breakdown != "" {
		if err := sonic.UnmarshalString(row.Breakdown, &breakdown); err != nil {
			return ledger.ScoreEvent{}, err
		}
	}

	return ledger.ScoreEvent{
		ID:         row.PublicID,
		GameID:     row.GameID,
		UserID:     row.UserID,
		Username:   row.Username,
		TeamID:     row.TeamID,
		Side:       side,
		Points:     row.Points,
		Breakdown:  breakdown,
		WorkoutRef: row.WorkoutRef,
		OccurredAt: row.OccurredAt,
	}, nil
}
