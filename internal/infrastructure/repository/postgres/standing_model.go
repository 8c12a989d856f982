package postgres

import "time"

type standingTableModel struct {
	ID        int64     `db:"id"`
	SeasonID  string    `db:"season_public_id"`
	TeamID    string    `db:"team_public_id"`
	Played    int       `db:"played"`
	Wins      int       `db:"wins"`
	Draws     int       `db:"draws"`
	Losses    int       `db:"losses"`
	Points    int       `db:"points"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type standingInsertModel struct {
	SeasonID string `db:"season_public_id"`
	TeamID   string `db:"team_public_id"`
	Played   int    `db:"played"`
	Wins     int    `db:"wins"`
	Draws    int    `db:"draws"`
	Losses   int    `db:"losses"`
	Points   int    `db:"points"`
}
