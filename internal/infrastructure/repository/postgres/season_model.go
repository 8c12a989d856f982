package postgres

import (
	"time"

	"github.com/lib/pq"
)

type seasonTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	LeagueID        string         `db:"league_public_id"`
	Name            string         `db:"name"`
	StartsAt        time.Time      `db:"starts_at"`
	EndsAt          time.Time      `db:"ends_at"`
	GameDurationSec int64          `db:"game_duration_seconds"`
	EvalEnabled     bool           `db:"evaluation_enabled"`
	EvalTimezone    string         `db:"evaluation_timezone"`
	TeamIDs         pq.StringArray `db:"team_ids"`
	CreatedAt       time.Time      `db:"created_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}

type seasonInsertModel struct {
	PublicID        string         `db:"public_id"`
	LeagueID        string         `db:"league_public_id"`
	Name            string         `db:"name"`
	StartsAt        time.Time      `db:"starts_at"`
	EndsAt          time.Time      `db:"ends_at"`
	GameDurationSec int64          `db:"game_duration_seconds"`
	EvalEnabled     bool           `db:"evaluation_enabled"`
	EvalTimezone    string         `db:"evaluation_timezone"`
	TeamIDs         pq.StringArray `db:"team_ids"`
}
