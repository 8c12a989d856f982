package summary

import "time"

// PlayerLine identifies one roster member and their total contribution.
type PlayerLine struct {
	UserID   string
	Username string
	Points   int
}

// SideStats aggregates one side of an evaluated game.
type SideStats struct {
	// AveragePoints is the side's final score divided by its active
	// roster size.
	AveragePoints float64
	// Workouts counts the score events recorded for the side.
	Workouts  int
	TopScorer PlayerLine
}

// GameSummary is the once-only evaluation result of a finished game.
type GameSummary struct {
	ID        string
	GameID    string
	HomeScore int
	AwayScore int
	MVP       PlayerLine
	LVP       PlayerLine
	Home      SideStats
	Away      SideStats
	// AwayLowest is the away roster's lowest performer, kept as its own
	// field next to the combined LVP.
	AwayLowest PlayerLine
	CreatedAt  time.Time
}
