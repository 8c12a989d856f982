package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fitclash/league-engine/internal/domain/notification"
	"github.com/fitclash/league-engine/internal/domain/season"
	"github.com/fitclash/league-engine/internal/domain/team"
	"github.com/fitclash/league-engine/internal/infrastructure/repository/memory"
	idgen "github.com/fitclash/league-engine/internal/platform/id"
	"github.com/fitclash/league-engine/internal/platform/logging"
)

// recordingPublisher captures emitted notifications for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) byType(eventType notification.EventType) []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notification.Event, 0)
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// engineFixture wires the full service graph over memory repositories.
type engineFixture struct {
	leagues   *memory.LeagueRepository
	teams     *memory.TeamRepository
	seasons   *memory.SeasonRepository
	games     *memory.GameRepository
	ledger    *memory.LedgerRepository
	standings *memory.StandingRepository
	summaries *memory.SummaryRepository
	publisher *recordingPublisher

	schedule   *ScheduleService
	score      *ScoreService
	cycle      *CycleService
	evaluation *EvaluationService
	league     *LeagueService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	f := &engineFixture{
		leagues:   memory.NewLeagueRepository(memory.SeedLeagues()),
		teams:     memory.NewTeamRepository(memory.SeedTeams()),
		seasons:   memory.NewSeasonRepository(),
		games:     memory.NewGameRepository(),
		standings: memory.NewStandingRepository(),
		summaries: memory.NewSummaryRepository(),
		publisher: &recordingPublisher{},
	}
	f.ledger = memory.NewLedgerRepository(f.games)

	for _, member := range memory.SeedMemberships() {
		if err := f.teams.AddMember(context.Background(), member); err != nil {
			t.Fatalf("seed membership: %v", err)
		}
	}

	logger := logging.NewNop()
	f.schedule = NewScheduleService(f.leagues, f.seasons, f.teams, f.games, f.standings, idgen.NewSequenceGenerator("sched"), logger)
	f.score = NewScoreService(f.games, f.teams, f.ledger, f.publisher, nil, idgen.NewSequenceGenerator("event"), logger)
	f.cycle = NewCycleService(f.games, f.publisher, logger)
	f.evaluation = NewEvaluationService(f.games, f.seasons, f.standings, f.summaries, f.score, f.publisher, idgen.NewSequenceGenerator("summary"), logger)
	f.league = NewLeagueService(f.leagues, f.teams, f.seasons, f.games, f.standings, idgen.NewSequenceGenerator("league"))

	return f
}

var testSeasonStart = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func (f *engineFixture) createSeason(t *testing.T, teamIDs []string) season.Season {
	t.Helper()

	created, _, err := f.schedule.CreateSeason(context.Background(), CreateSeasonInput{
		LeagueID:     "office-fit-cup",
		Name:         "Spring 2026",
		StartsAt:     testSeasonStart,
		GameDuration: 2 * time.Hour,
		Evaluation:   season.EvaluationPolicy{Enabled: true, Timezone: "UTC"},
		TeamIDs:      teamIDs,
	})
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	return created
}

func (f *engineFixture) addTeamWithMembers(t *testing.T, teamID string, users ...string) {
	t.Helper()

	ctx := context.Background()
	if err := f.teams.Create(ctx, team.Team{ID: teamID, LeagueID: "office-fit-cup", Name: teamID}); err != nil {
		t.Fatalf("create team: %v", err)
	}
	for _, user := range users {
		err := f.teams.AddMember(ctx, team.Membership{
			TeamID:   teamID,
			UserID:   user,
			Username: user,
			JoinedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
			Active:   true,
		})
		if err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
}
