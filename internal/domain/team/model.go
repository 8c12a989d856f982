package team

import (
	"fmt"
	"time"
)

// Team is a club competing inside a league.
type Team struct {
	ID       string
	LeagueID string
	Name     string
}

// Membership ties a user to a team roster. JoinedAt is the eligibility
// floor for that user's workout contributions to any game of the team.
type Membership struct {
	TeamID   string
	UserID   string
	Username string
	JoinedAt time.Time
	Active   bool
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func (m Membership) Validate() error {
	if m.TeamID == "" {
		return fmt.Errorf("membership team id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("membership user id is required")
	}
	if m.JoinedAt.IsZero() {
		return fmt.Errorf("membership joined_at is required")
	}

	return nil
}
