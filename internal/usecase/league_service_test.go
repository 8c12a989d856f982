package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitclash/league-engine/internal/domain/game"
)

func TestCreateLeague(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	created, err := f.league.CreateLeague(ctx, CreateLeagueInput{Name: "District Cup", MaxTeams: 8})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "District Cup", created.Name)

	fetched, exists, err := f.leagues.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, created, fetched)
}

func TestCreateLeague_Validation(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	cases := map[string]CreateLeagueInput{
		"missing name":      {MaxTeams: 4},
		"single team limit": {Name: "Solo", MaxTeams: 1},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.league.CreateLeague(ctx, input)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateTeam_RequiresLeague(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	created, err := f.league.CreateTeam(ctx, CreateTeamInput{LeagueID: "office-fit-cup", Name: "Night Shift"})
	require.NoError(t, err)
	require.Equal(t, "office-fit-cup", created.LeagueID)

	_, err = f.league.CreateTeam(ctx, CreateTeamInput{LeagueID: "no-such-league", Name: "Ghosts"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTeam_LeagueCapacity(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	small, err := f.league.CreateLeague(ctx, CreateLeagueInput{Name: "Duo League", MaxTeams: 2})
	require.NoError(t, err)

	for _, name := range []string{"First", "Second"} {
		_, err := f.league.CreateTeam(ctx, CreateTeamInput{LeagueID: small.ID, Name: name})
		require.NoError(t, err)
	}

	_, err = f.league.CreateTeam(ctx, CreateTeamInput{LeagueID: small.ID, Name: "Third"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestAddMember_DefaultsJoinedAt(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	joinedAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	f.league.now = func() time.Time { return joinedAt }

	member, err := f.league.AddMember(ctx, AddMemberInput{
		TeamID:   "team-ironworks",
		UserID:   "user-eli",
		Username: "eli",
	})
	require.NoError(t, err)
	require.Equal(t, joinedAt, member.JoinedAt)
	require.True(t, member.Active)

	members, err := f.teams.ListActiveMembers(ctx, "team-ironworks")
	require.NoError(t, err)

	found := false
	for _, m := range members {
		if m.UserID == "user-eli" {
			found = true
		}
	}
	require.True(t, found, "expected user-eli on the roster")
}

func TestAddMember_UnknownTeam(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.league.AddMember(context.Background(), AddMemberInput{
		TeamID:   "team-phantom",
		UserID:   "user-zed",
		Username: "zed",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSeasonTable_OrderedByPointsThenWins(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	workouts := []WorkoutEvent{
		workoutAt("user-ana", "wo-table-1", testSeasonStart.Add(10*time.Minute), 30, 70),
		workoutAt("user-cam", "wo-table-2", testSeasonStart.Add(20*time.Minute), 30, 25),
	}
	finished := finishWeekOne(t, f, workouts)

	_, err := f.evaluation.EvaluateGame(ctx, finished.ID)
	require.NoError(t, err)

	table, err := f.league.SeasonTable(ctx, finished.SeasonID)
	require.NoError(t, err)
	require.Len(t, table, 2)
	require.Equal(t, "team-ironworks", table[0].TeamID)
	require.Equal(t, 3, table[0].Points)
	require.Equal(t, "team-pacers", table[1].TeamID)
	require.Equal(t, 0, table[1].Points)
}

func TestSeasonTable_UnknownSeason(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.league.SeasonTable(context.Background(), "no-such-season")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.league.SeasonTable(context.Background(), "")
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestListGames_OrderedByWeek(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	created := f.createSeason(t, []string{"team-ironworks", "team-pacers"})

	games, err := f.league.ListGames(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, 1, games[0].Week)
	require.Equal(t, 2, games[1].Week)
	for _, g := range games {
		require.Equal(t, game.StatusScheduled, g.Status)
	}
}
