package game

import (
	"fmt"
	"time"
)

// Status is the closed lifecycle state of a game. Transitions are
// monotonic and validated by ValidTransition.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
	StatusEvaluated  Status = "EVALUATED"
)

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusScheduled, StatusInProgress, StatusFinished, StatusEvaluated:
		return Status(value), nil
	default:
		return "", fmt.Errorf("unknown game status %q", value)
	}
}

// ValidTransition reports whether a game may move from one status to the
// next. Only single forward steps are allowed; evaluation is terminal.
func ValidTransition(from, to Status) bool {
	switch from {
	case StatusScheduled:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusFinished
	case StatusFinished:
		return to == StatusEvaluated
	default:
		return false
	}
}

// Side is the home or away designation of a team within one game.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func ParseSide(value string) (Side, error) {
	switch Side(value) {
	case SideHome, SideAway:
		return Side(value), nil
	default:
		return "", fmt.Errorf("unknown team side %q", value)
	}
}

// LastScorer records the most recent accepted contribution on a game.
type LastScorer struct {
	UserID   string
	Username string
	Side     Side
	At       time.Time
}

// Game is one round-robin fixture between two teams of a season. The
// score fields are denormalized aggregates over the game's score events
// and must always equal the per-side event sums.
type Game struct {
	ID         string
	SeasonID   string
	Week       int
	HomeTeamID string
	AwayTeamID string
	Status     Status
	StartsAt   time.Time
	EndsAt     time.Time
	HomeScore  int
	AwayScore  int
	LastScorer *LastScorer
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.SeasonID == "" {
		return fmt.Errorf("game season id is required")
	}
	if g.Week < 1 {
		return fmt.Errorf("game week must be >= 1")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game team ids are required")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game teams must differ")
	}
	if !g.EndsAt.After(g.StartsAt) {
		return fmt.Errorf("game end must be after start")
	}

	return nil
}

// SideOf returns which side the given team plays on in this game.
func (g Game) SideOf(teamID string) (Side, bool) {
	switch teamID {
	case g.HomeTeamID:
		return SideHome, true
	case g.AwayTeamID:
		return SideAway, true
	default:
		return "", false
	}
}

// ScoreOf returns the current aggregate for one side.
func (g Game) ScoreOf(side Side) int {
	if side == SideHome {
		return g.HomeScore
	}
	return g.AwayScore
}
