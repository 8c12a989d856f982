package postgres

import "time"

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	LeagueID  string     `db:"league_public_id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	Name     string `db:"name"`
}

type membershipTableModel struct {
	ID        int64      `db:"id"`
	TeamID    string     `db:"team_public_id"`
	UserID    string     `db:"user_id"`
	Username  string     `db:"username"`
	JoinedAt  time.Time  `db:"joined_at"`
	Active    bool       `db:"active"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type membershipInsertModel struct {
	TeamID   string    `db:"team_public_id"`
	UserID   string    `db:"user_id"`
	Username string    `db:"username"`
	JoinedAt time.Time `db:"joined_at"`
	Active   bool      `db:"active"`
}
