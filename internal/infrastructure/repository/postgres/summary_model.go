package postgres

import "time"

type summaryTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	GameID    string    `db:"game_public_id"`
	HomeScore int       `db:"home_score"`
	AwayScore int       `db:"away_score"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

type summaryInsertModel struct {
	PublicID  string    `db:"public_id"`
	GameID    string    `db:"game_public_id"`
	HomeScore int       `db:"home_score"`
	AwayScore int       `db:"away_score"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

// summaryDetailPayload is the JSONB shape of game_summaries.detail.
type summaryDetailPayload struct {
	MVP        playerLinePayload `json:"mvp"`
	LVP        playerLinePayload `json:"lvp"`
	Home       sideStatsPayload  `json:"home"`
	Away       sideStatsPayload  `json:"away"`
	AwayLowest playerLinePayload `json:"away_lowest"`
}

type playerLinePayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type sideStatsPayload struct {
	AveragePoints float64           `json:"average_points"`
	Workouts      int               `json:"workouts"`
	TopScorer     playerLinePayload `json:"top_scorer"`
}
