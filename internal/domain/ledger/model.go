package ledger

import (
	"fmt"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
)

// Breakdown splits a contribution's points by workout component.
type Breakdown struct {
	Stamina  int `json:"stamina"`
	Strength int `json:"strength"`
}

func (b Breakdown) Total() int {
	return b.Stamina + b.Strength
}

// ScoreEvent is the immutable record of one user's point contribution to
// one game, derived from exactly one workout. At most one event exists
// per workout reference.
type ScoreEvent struct {
	ID         string
	GameID     string
	UserID     string
	Username   string
	TeamID     string
	Side       game.Side
	Points     int
	Breakdown  Breakdown
	WorkoutRef string
	OccurredAt time.Time
}

func (e ScoreEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("score event id is required")
	}
	if e.GameID == "" {
		return fmt.Errorf("score event game id is required")
	}
	if e.UserID == "" {
		return fmt.Errorf("score event user id is required")
	}
	if e.WorkoutRef == "" {
		return fmt.Errorf("score event workout ref is required")
	}
	if e.Points < 0 {
		return fmt.Errorf("score event points must be >= 0")
	}
	if _, err := game.ParseSide(string(e.Side)); err != nil {
		return err
	}

	return nil
}

// UserTotal aggregates the stored events of one user on one game.
type UserTotal struct {
	UserID   string
	Username string
	TeamID   string
	Side     game.Side
	Points   int
	Events   int
	LastAt   time.Time
}

// Contribution is a roster member's total on one game. Members that
// never scored appear with zero values so that least-valuable analysis
// can see non-contributors.
type Contribution struct {
	UserID   string
	Username string
	TeamID   string
	Side     game.Side
	Points   int
	Events   int
	LastAt   time.Time
}
