package game

import (
	"testing"
	"time"
)

func TestValidTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"scheduled to in progress", StatusScheduled, StatusInProgress, true},
		{"in progress to finished", StatusInProgress, StatusFinished, true},
		{"finished to evaluated", StatusFinished, StatusEvaluated, true},
		{"scheduled to finished skips a step", StatusScheduled, StatusFinished, false},
		{"backward move", StatusFinished, StatusInProgress, false},
		{"evaluated is terminal", StatusEvaluated, StatusScheduled, false},
		{"self transition", StatusInProgress, StatusInProgress, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("ValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	if _, err := ParseStatus("IN_PROGRESS"); err != nil {
		t.Fatalf("parse valid status: %v", err)
	}
	if _, err := ParseStatus("LIVE"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestGameValidate(t *testing.T) {
	t.Parallel()

	base := Game{
		ID:         "g1",
		SeasonID:   "s1",
		Week:       1,
		HomeTeamID: "team-a",
		AwayTeamID: "team-b",
		Status:     StatusScheduled,
		StartsAt:   time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid game rejected: %v", err)
	}

	sameTeams := base
	sameTeams.AwayTeamID = base.HomeTeamID
	if err := sameTeams.Validate(); err == nil {
		t.Fatal("expected error when home and away teams match")
	}

	inverted := base
	inverted.EndsAt = base.StartsAt
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected error when window is empty")
	}
}

func TestSideOf(t *testing.T) {
	t.Parallel()

	g := Game{HomeTeamID: "team-a", AwayTeamID: "team-b"}
	if side, ok := g.SideOf("team-a"); !ok || side != SideHome {
		t.Fatalf("unexpected side for home team: %v %v", side, ok)
	}
	if side, ok := g.SideOf("team-b"); !ok || side != SideAway {
		t.Fatalf("unexpected side for away team: %v %v", side, ok)
	}
	if _, ok := g.SideOf("team-c"); ok {
		t.Fatal("expected no side for unrelated team")
	}
}
