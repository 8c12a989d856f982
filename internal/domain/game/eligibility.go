package game

import "time"

// WindowContains reports whether a workout interval lies fully inside the
// game's live window. The start bound is inclusive, the end bound is
// exclusive for the workout start: a workout starting exactly at the
// game end does not count.
func (g Game) WindowContains(workoutStart, workoutEnd time.Time) bool {
	if workoutStart.Before(g.StartsAt) {
		return false
	}
	if !workoutStart.Before(g.EndsAt) {
		return false
	}
	return !workoutEnd.After(g.EndsAt)
}

// Eligible reports whether a member's workout may score on this game:
// the workout must not predate the membership and the whole interval
// must lie inside the live window.
func (g Game) Eligible(joinedAt, workoutStart, workoutEnd time.Time) bool {
	if workoutStart.Before(joinedAt) {
		return false
	}
	return g.WindowContains(workoutStart, workoutEnd)
}
