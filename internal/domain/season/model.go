package season

import (
	"fmt"
	"time"
)

// EvaluationPolicy controls the automatic post-game evaluation of a season.
// Timezone is an IANA name used when interpreting evaluation dates.
type EvaluationPolicy struct {
	Enabled  bool
	Timezone string
}

// Season is one competitive cycle of a league with a frozen team roster.
type Season struct {
	ID           string
	LeagueID     string
	Name         string
	StartsAt     time.Time
	EndsAt       time.Time
	GameDuration time.Duration
	Evaluation   EvaluationPolicy
	TeamIDs      []string
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("season league id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if s.StartsAt.IsZero() {
		return fmt.Errorf("season start is required")
	}
	if s.GameDuration <= 0 {
		return fmt.Errorf("season game duration must be positive")
	}

	return nil
}

// Location resolves the evaluation timezone, falling back to UTC.
func (s Season) Location() *time.Location {
	if s.Evaluation.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Evaluation.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
