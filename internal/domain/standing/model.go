package standing

// Standing is a team's cumulative record within one season.
// Points are always 3 per win plus 1 per draw.
type Standing struct {
	SeasonID string
	TeamID   string
	Played   int
	Wins     int
	Draws    int
	Losses   int
	Points   int
}

// ApplyResult folds one evaluated game result into the record.
func (s *Standing) ApplyResult(won, drew bool) {
	s.Played++
	switch {
	case drew:
		s.Draws++
	case won:
		s.Wins++
	default:
		s.Losses++
	}
	s.Points = 3*s.Wins + s.Draws
}
