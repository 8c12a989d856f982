package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
)

func TestRoundRobinWeeks_Completeness(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 4, 6, 8} {
		n := n
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			t.Parallel()

			teams := make([]string, 0, n)
			for i := 0; i < n; i++ {
				teams = append(teams, fmt.Sprintf("team-%d", i))
			}

			weeks := roundRobinWeeks(teams)
			if len(weeks) != 2*(n-1) {
				t.Fatalf("unexpected week count: got=%d want=%d", len(weeks), 2*(n-1))
			}

			seen := make(map[string]int)
			total := 0
			for weekIdx, pairings := range weeks {
				if len(pairings) != n/2 {
					t.Fatalf("week %d has %d pairings, want %d", weekIdx+1, len(pairings), n/2)
				}
				playing := make(map[string]bool)
				for _, p := range pairings {
					if p.home == p.away {
						t.Fatalf("week %d pairs a team with itself: %s", weekIdx+1, p.home)
					}
					if playing[p.home] || playing[p.away] {
						t.Fatalf("week %d schedules a team twice", weekIdx+1)
					}
					playing[p.home] = true
					playing[p.away] = true
					seen[p.home+"|"+p.away]++
					total++
				}
			}

			if total != n*(n-1) {
				t.Fatalf("unexpected total games: got=%d want=%d", total, n*(n-1))
			}
			for key, count := range seen {
				if count != 1 {
					t.Fatalf("ordered pair %s appears %d times", key, count)
				}
			}
		})
	}
}

func TestCreateSeason_TwoTeams(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	created := f.createSeason(t, []string{"team-ironworks", "team-pacers"})

	games, err := f.games.ListBySeason(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games for 2 teams, got %d", len(games))
	}
	if games[0].HomeTeamID != games[1].AwayTeamID || games[0].AwayTeamID != games[1].HomeTeamID {
		t.Fatalf("expected mirrored fixtures, got %+v", games)
	}
	for _, g := range games {
		if g.Status != game.StatusScheduled {
			t.Fatalf("expected scheduled status, got %s", g.Status)
		}
		wantStart := testSeasonStart.AddDate(0, 0, 7*(g.Week-1))
		if !g.StartsAt.Equal(wantStart) {
			t.Fatalf("week %d start: got=%v want=%v", g.Week, g.StartsAt, wantStart)
		}
		if !g.EndsAt.Equal(wantStart.Add(2 * time.Hour)) {
			t.Fatalf("week %d end: got=%v", g.Week, g.EndsAt)
		}
	}

	standings, err := f.standings.ListBySeason(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 zero standings, got %d", len(standings))
	}
	for _, row := range standings {
		if row.Played != 0 || row.Points != 0 {
			t.Fatalf("expected zero standing, got %+v", row)
		}
	}
}

func TestCreateSeason_OddTeamCountRejected(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	f.addTeamWithMembers(t, "team-odd", "user-odd")

	_, _, err := f.schedule.CreateSeason(context.Background(), CreateSeasonInput{
		LeagueID:     "office-fit-cup",
		Name:         "Broken",
		StartsAt:     testSeasonStart,
		GameDuration: time.Hour,
		TeamIDs:      []string{"team-ironworks", "team-pacers", "team-odd"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	seasons, err := f.seasons.List(context.Background())
	if err != nil {
		t.Fatalf("list seasons: %v", err)
	}
	if len(seasons) != 0 {
		t.Fatalf("expected no seasons after rejection, got %d", len(seasons))
	}
}

func TestCreateSeason_UnknownLeague(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	_, _, err := f.schedule.CreateSeason(context.Background(), CreateSeasonInput{
		LeagueID:     "missing",
		Name:         "Ghost",
		StartsAt:     testSeasonStart,
		GameDuration: time.Hour,
		TeamIDs:      []string{"team-ironworks", "team-pacers"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateSeason_FourTeams(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	f.addTeamWithMembers(t, "team-lifters", "user-eve")
	f.addTeamWithMembers(t, "team-sprinters", "user-finn")

	created := f.createSeason(t, []string{"team-ironworks", "team-pacers", "team-lifters", "team-sprinters"})

	games, err := f.games.ListBySeason(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 12 {
		t.Fatalf("expected 12 games for 4 teams, got %d", len(games))
	}

	perWeek := make(map[int]map[string]bool)
	for _, g := range games {
		if perWeek[g.Week] == nil {
			perWeek[g.Week] = make(map[string]bool)
		}
		if perWeek[g.Week][g.HomeTeamID] || perWeek[g.Week][g.AwayTeamID] {
			t.Fatalf("team plays twice in week %d", g.Week)
		}
		perWeek[g.Week][g.HomeTeamID] = true
		perWeek[g.Week][g.AwayTeamID] = true
	}
	if len(perWeek) != 6 {
		t.Fatalf("expected 6 weeks, got %d", len(perWeek))
	}
}
