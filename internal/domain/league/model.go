package league

import "fmt"

// League is a competition container owning seasons of team fixtures.
type League struct {
	ID       string
	Name     string
	MaxTeams int
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.MaxTeams < 2 {
		return fmt.Errorf("league must allow at least 2 teams")
	}

	return nil
}
