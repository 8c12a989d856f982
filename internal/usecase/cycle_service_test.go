package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/notification"
)

func TestTick_StartsAndFinishesDueGames(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	created := f.createSeason(t, []string{"team-ironworks", "team-pacers"})
	ctx := context.Background()

	// Before the season starts nothing moves.
	f.cycle.now = func() time.Time { return testSeasonStart.Add(-time.Minute) }
	result, err := f.cycle.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Started != 0 || result.Finished != 0 {
		t.Fatalf("expected no transitions, got %+v", result)
	}

	// At kickoff the first week's game goes live.
	f.cycle.now = func() time.Time { return testSeasonStart }
	result, err = f.cycle.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Started != 1 {
		t.Fatalf("expected 1 started, got %+v", result)
	}
	if got := len(f.publisher.byType(notification.EventGameStarted)); got != 1 {
		t.Fatalf("expected 1 game_started notification, got %d", got)
	}

	// A repeat tick at the same instant changes nothing.
	result, err = f.cycle.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Started != 0 || result.Finished != 0 {
		t.Fatalf("expected idempotent tick, got %+v", result)
	}
	if got := len(f.publisher.byType(notification.EventGameStarted)); got != 1 {
		t.Fatalf("notification repeated on idempotent tick: %d", got)
	}

	// After the live window closes the game finishes.
	f.cycle.now = func() time.Time { return testSeasonStart.Add(2 * time.Hour) }
	result, err = f.cycle.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Finished != 1 {
		t.Fatalf("expected 1 finished, got %+v", result)
	}

	games, err := f.games.ListBySeasonWeek(ctx, created.ID, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if games[0].Status != game.StatusFinished {
		t.Fatalf("expected finished, got %s", games[0].Status)
	}
	if got := len(f.publisher.byType(notification.EventGameFinished)); got != 1 {
		t.Fatalf("expected 1 game_finished notification, got %d", got)
	}
}

func TestTick_LongOutageStartsAndFinishesInOnePass(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	f.createSeason(t, []string{"team-ironworks", "team-pacers"})
	ctx := context.Background()

	// The scheduler was down for the whole live window. A single
	// catch-up pass both opens and closes the game.
	f.cycle.now = func() time.Time { return testSeasonStart.Add(3 * time.Hour) }
	result, err := f.cycle.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Started != 1 || result.Finished != 1 {
		t.Fatalf("expected catch-up start and finish, got %+v", result)
	}
}

func TestForceStart_OnlyScheduledGames(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	f.addTeamWithMembers(t, "team-lifters", "user-eve")
	f.addTeamWithMembers(t, "team-sprinters", "user-finn")
	created := f.createSeason(t, []string{
		"team-ironworks", "team-pacers", "team-lifters", "team-sprinters",
	})
	ctx := context.Background()

	forcedAt := testSeasonStart.Add(-48 * time.Hour)
	f.cycle.now = func() time.Time { return forcedAt }

	started, err := f.cycle.ForceStart(ctx, ForceStartInput{
		SeasonID: created.ID,
		Week:     1,
		Duration: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("force start: %v", err)
	}
	if len(started) != 2 {
		t.Fatalf("expected both week 1 games started, got %d", len(started))
	}
	for _, g := range started {
		if g.Status != game.StatusInProgress {
			t.Fatalf("game %s not in progress: %s", g.ID, g.Status)
		}
		if !g.StartsAt.Equal(forcedAt) || !g.EndsAt.Equal(forcedAt.Add(30*time.Minute)) {
			t.Fatalf("game %s window not rewritten: %v..%v", g.ID, g.StartsAt, g.EndsAt)
		}
	}

	// A second force start finds nothing scheduled in that week.
	started, err = f.cycle.ForceStart(ctx, ForceStartInput{
		SeasonID: created.ID,
		Week:     1,
		Duration: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("repeat force start: %v", err)
	}
	if len(started) != 0 {
		t.Fatalf("expected no games on repeat, got %d", len(started))
	}
}

func TestForceStart_Validation(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	created := f.createSeason(t, []string{"team-ironworks", "team-pacers"})
	ctx := context.Background()

	cases := []struct {
		name  string
		input ForceStartInput
		want  error
	}{
		{"missing season", ForceStartInput{Week: 1, Duration: time.Hour}, ErrInvalidInput},
		{"zero week", ForceStartInput{SeasonID: created.ID, Duration: time.Hour}, ErrInvalidInput},
		{"zero duration", ForceStartInput{SeasonID: created.ID, Week: 1}, ErrInvalidInput},
		{"unknown week", ForceStartInput{SeasonID: created.ID, Week: 99, Duration: time.Hour}, ErrNotFound},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.cycle.ForceStart(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
