package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/ledger"
	"github.com/fitclash/league-engine/internal/domain/notification"
	"github.com/fitclash/league-engine/internal/domain/team"
)

// startWeekOne creates a 2-team season and moves its first game live.
func startWeekOne(t *testing.T, f *engineFixture) game.Game {
	t.Helper()

	created := f.createSeason(t, []string{"team-ironworks", "team-pacers"})

	f.cycle.now = func() time.Time { return testSeasonStart }
	if _, err := f.cycle.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	games, err := f.games.ListBySeasonWeek(context.Background(), created.ID, 1)
	if err != nil {
		t.Fatalf("list week games: %v", err)
	}
	if len(games) != 1 || games[0].Status != game.StatusInProgress {
		t.Fatalf("expected one live game, got %+v", games)
	}
	return games[0]
}

func workoutAt(user, ref string, start time.Time, minutes, points int) WorkoutEvent {
	return WorkoutEvent{
		UserID:     user,
		Username:   user,
		WorkoutRef: ref,
		StartedAt:  start,
		EndedAt:    start.Add(time.Duration(minutes) * time.Minute),
		Points:     points,
	}
}

func TestIngestWorkout_RecordsHomeContribution(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)

	side, ok := live.SideOf("team-ironworks")
	require.True(t, ok)

	result, err := f.score.IngestWorkout(context.Background(), workoutAt("user-ana", "workout-1", testSeasonStart.Add(10*time.Minute), 30, 50))
	require.NoError(t, err)
	require.Equal(t, 1, result.Recorded)

	updated, exists, err := f.games.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, 50, updated.ScoreOf(side))
	require.NotNil(t, updated.LastScorer)
	require.Equal(t, "user-ana", updated.LastScorer.UserID)

	events, err := f.ledger.ListByGame(context.Background(), live.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, side, events[0].Side)

	live2 := f.publisher.byType(notification.EventLiveScoreUpdate)
	require.Len(t, live2, 1)
	require.Equal(t, "user-ana", live2[0].LastScorer.UserID)
}

func TestIngestWorkout_IdempotentPerWorkoutRef(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)

	event := workoutAt("user-ana", "workout-dup", testSeasonStart.Add(5*time.Minute), 20, 25)
	for i := 0; i < 3; i++ {
		if _, err := f.score.IngestWorkout(context.Background(), event); err != nil {
			t.Fatalf("ingest attempt %d: %v", i, err)
		}
	}

	updated, _, err := f.games.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	side, _ := live.SideOf("team-ironworks")
	require.Equal(t, 25, updated.ScoreOf(side), "re-processing the same workout must not double count")
}

func TestIngestWorkout_WindowExclusions(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)

	cases := []struct {
		name  string
		event WorkoutEvent
	}{
		{"starts before window", workoutAt("user-ana", "w-before", testSeasonStart.Add(-time.Minute), 30, 10)},
		{"ends after window", workoutAt("user-ana", "w-after", live.EndsAt.Add(-10*time.Minute), 20, 10)},
		{"starts at game end", workoutAt("user-ana", "w-at-end", live.EndsAt, 10, 10)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.score.IngestWorkout(context.Background(), tc.event)
			require.NoError(t, err, "eligibility rejection is not an error")
			require.Zero(t, result.Recorded)
		})
	}

	updated, _, err := f.games.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	require.Zero(t, updated.HomeScore)
	require.Zero(t, updated.AwayScore)

	events, err := f.ledger.ListByGame(context.Background(), live.ID)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestIngestWorkout_BeforeMembershipRejected(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	f.addTeamWithMembers(t, "team-lifters", "user-eve")
	f.addTeamWithMembers(t, "team-sprinters", "user-finn")
	created := f.createSeason(t, []string{"team-lifters", "team-sprinters"})

	// A member who joins mid-game only counts from their join time.
	joinedMid := testSeasonStart.Add(30 * time.Minute)
	require.NoError(t, f.teams.AddMember(context.Background(), team.Membership{
		TeamID:   "team-lifters",
		UserID:   "user-late",
		Username: "user-late",
		JoinedAt: joinedMid,
		Active:   true,
	}))

	f.cycle.now = func() time.Time { return testSeasonStart }
	_, err := f.cycle.Tick(context.Background())
	require.NoError(t, err)

	games, err := f.games.ListBySeasonWeek(context.Background(), created.ID, 1)
	require.NoError(t, err)
	live := games[0]

	// Workout starts before the user joined: rejected.
	result, err := f.score.IngestWorkout(context.Background(), workoutAt("user-late", "w-early", testSeasonStart.Add(10*time.Minute), 15, 40))
	require.NoError(t, err)
	require.Zero(t, result.Recorded)

	// Workout after joining counts.
	result, err = f.score.IngestWorkout(context.Background(), workoutAt("user-late", "w-later", joinedMid.Add(5*time.Minute), 15, 40))
	require.NoError(t, err)
	require.Equal(t, 1, result.Recorded)

	updated, _, err := f.games.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	side, _ := updated.SideOf("team-lifters")
	require.Equal(t, 40, updated.ScoreOf(side))
}

func TestRemoveWorkouts_RestoresAggregates(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)

	_, err := f.score.IngestWorkout(context.Background(), workoutAt("user-ana", "workout-1", testSeasonStart.Add(10*time.Minute), 20, 50))
	require.NoError(t, err)
	_, err = f.score.IngestWorkout(context.Background(), workoutAt("user-bo", "workout-2", testSeasonStart.Add(15*time.Minute), 20, 30))
	require.NoError(t, err)
	_, err = f.score.IngestWorkout(context.Background(), workoutAt("user-cam", "workout-3", testSeasonStart.Add(20*time.Minute), 20, 20))
	require.NoError(t, err)

	require.NoError(t, f.score.RemoveWorkouts(context.Background(), []string{"workout-1"}))

	updated, _, err := f.games.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	ironSide, _ := updated.SideOf("team-ironworks")
	pacerSide, _ := updated.SideOf("team-pacers")
	require.Equal(t, 30, updated.ScoreOf(ironSide))
	require.Equal(t, 20, updated.ScoreOf(pacerSide))

	// Removing the remaining workouts returns the game to zero.
	require.NoError(t, f.score.RemoveWorkouts(context.Background(), []string{"workout-2", "workout-3", "workout-unknown"}))
	updated, _, err = f.games.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	require.Zero(t, updated.HomeScore)
	require.Zero(t, updated.AwayScore)
}

func TestLedgerConsistency_MixedInsertAndDelete(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)
	ctx := context.Background()

	users := []string{"user-ana", "user-bo", "user-cam", "user-dee"}
	for i := 0; i < 12; i++ {
		ref := fmt.Sprintf("workout-%d", i)
		_, err := f.score.IngestWorkout(ctx, workoutAt(users[i%4], ref, testSeasonStart.Add(time.Duration(i)*time.Minute), 5, 10+i))
		require.NoError(t, err)
		if i%3 == 2 {
			require.NoError(t, f.score.RemoveWorkouts(ctx, []string{fmt.Sprintf("workout-%d", i-1)}))
		}

		updated, _, err := f.games.GetByID(ctx, live.ID)
		require.NoError(t, err)
		events, err := f.ledger.ListByGame(ctx, live.ID)
		require.NoError(t, err)

		wantHome, wantAway := 0, 0
		for _, e := range events {
			if e.Side == game.SideHome {
				wantHome += e.Points
			} else {
				wantAway += e.Points
			}
		}
		require.Equal(t, wantHome, updated.HomeScore, "home aggregate must equal event sum after every mutation")
		require.Equal(t, wantAway, updated.AwayScore, "away aggregate must equal event sum after every mutation")
	}
}

func TestAdjustScore_ClampedAtZero(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)
	ctx := context.Background()

	_, err := f.score.IngestWorkout(ctx, workoutAt("user-ana", "workout-1", testSeasonStart.Add(10*time.Minute), 20, 50))
	require.NoError(t, err)

	side, _ := live.SideOf("team-ironworks")
	updated, err := f.score.AdjustScore(ctx, AdjustScoreInput{
		GameID: live.ID,
		Side:   string(side),
		Delta:  -1000,
		Reason: "misclassified workout batch",
	})
	require.NoError(t, err)
	require.Zero(t, updated.ScoreOf(side), "adjustment must clamp at zero")

	// No score event is written for adjustments.
	events, err := f.ledger.ListByGame(ctx, live.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestAdjustScore_Validation(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	_ = startWeekOne(t, f)

	_, err := f.score.AdjustScore(context.Background(), AdjustScoreInput{GameID: "g", Side: "middle", Delta: 5, Reason: "r"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.score.AdjustScore(context.Background(), AdjustScoreInput{GameID: "missing", Side: "home", Delta: 5, Reason: "r"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetContributions_IncludesZeroContributors(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)
	ctx := context.Background()

	_, err := f.score.IngestWorkout(ctx, workoutAt("user-ana", "workout-1", testSeasonStart.Add(10*time.Minute), 20, 50))
	require.NoError(t, err)

	contributions, err := f.score.GetContributions(ctx, live.ID)
	require.NoError(t, err)
	require.Len(t, contributions, 4, "all four roster members appear")

	byUser := make(map[string]ledger.Contribution)
	for _, c := range contributions {
		byUser[c.UserID] = c
	}
	require.Equal(t, 50, byUser["user-ana"].Points)
	require.Equal(t, 1, byUser["user-ana"].Events)
	require.Zero(t, byUser["user-bo"].Points)
	require.Zero(t, byUser["user-cam"].Points)
	require.Zero(t, byUser["user-dee"].Points)
	require.Equal(t, contributions[0].UserID, "user-ana", "sorted by points desc")
}

func TestIngestWorkout_NoMembershipIsNoop(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	_ = startWeekOne(t, f)

	result, err := f.score.IngestWorkout(context.Background(), workoutAt("user-stranger", "workout-x", testSeasonStart.Add(10*time.Minute), 20, 50))
	require.NoError(t, err)
	require.Zero(t, result.Recorded)
}

func TestIngestWorkout_BreakdownFallback(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	live := startWeekOne(t, f)

	event := WorkoutEvent{
		UserID:     "user-ana",
		Username:   "ana",
		WorkoutRef: "workout-components",
		StartedAt:  testSeasonStart.Add(10 * time.Minute),
		EndedAt:    testSeasonStart.Add(40 * time.Minute),
		Breakdown:  ledger.Breakdown{Stamina: 12, Strength: 8},
	}
	result, err := f.score.IngestWorkout(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, 1, result.Recorded)

	updated, _, err := f.games.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	side, _ := live.SideOf("team-ironworks")
	require.Equal(t, 20, updated.ScoreOf(side))
}

func TestRemoveWorkouts_EmptyInputRejected(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	err := f.score.RemoveWorkouts(context.Background(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
