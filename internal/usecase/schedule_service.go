package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/league"
	"github.com/fitclash/league-engine/internal/domain/season"
	"github.com/fitclash/league-engine/internal/domain/standing"
	"github.com/fitclash/league-engine/internal/domain/team"
	idgen "github.com/fitclash/league-engine/internal/platform/id"
	"github.com/fitclash/league-engine/internal/platform/logging"
)

// ScheduleService creates seasons and their double round-robin fixture
// lists. Season creation is all-or-nothing: validation failures leave no
// games or standings behind.
type ScheduleService struct {
	leagueRepo   league.Repository
	seasonRepo   season.Repository
	teamRepo     team.Repository
	gameRepo     game.Repository
	standingRepo standing.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

type CreateSeasonInput struct {
	LeagueID     string        `validate:"required"`
	Name         string        `validate:"required"`
	StartsAt     time.Time     `validate:"required"`
	GameDuration time.Duration `validate:"required,gt=0"`
	Evaluation   season.EvaluationPolicy
	TeamIDs      []string `validate:"required,min=2,unique"`
}

func NewScheduleService(
	leagueRepo league.Repository,
	seasonRepo season.Repository,
	teamRepo team.Repository,
	gameRepo game.Repository,
	standingRepo standing.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScheduleService{
		leagueRepo:   leagueRepo,
		seasonRepo:   seasonRepo,
		teamRepo:     teamRepo,
		gameRepo:     gameRepo,
		standingRepo: standingRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateSeason validates the roster, persists the season, generates the
// full fixture list and seeds zero standings for every team.
func (s *ScheduleService) CreateSeason(ctx context.Context, input CreateSeasonInput) (season.Season, []game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.CreateSeason")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return season.Season{}, nil, err
	}
	if len(input.TeamIDs)%2 != 0 {
		return season.Season{}, nil, fmt.Errorf("%w: team count must be even, got %d", ErrInvalidInput, len(input.TeamIDs))
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return season.Season{}, nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return season.Season{}, nil, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if len(input.TeamIDs) > item.MaxTeams {
		return season.Season{}, nil, fmt.Errorf("%w: league allows at most %d teams", ErrInvalidInput, item.MaxTeams)
	}

	for _, teamID := range input.TeamIDs {
		t, ok, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return season.Season{}, nil, fmt.Errorf("get team: %w", err)
		}
		if !ok {
			return season.Season{}, nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		if t.LeagueID != input.LeagueID {
			return season.Season{}, nil, fmt.Errorf("%w: team %s belongs to league %s", ErrInvalidInput, teamID, t.LeagueID)
		}
	}

	seasonID, err := s.idGen.NewID()
	if err != nil {
		return season.Season{}, nil, fmt.Errorf("generate season id: %w", err)
	}

	weeks := roundRobinWeeks(input.TeamIDs)
	totalWeeks := len(weeks)

	item2 := season.Season{
		ID:           seasonID,
		LeagueID:     input.LeagueID,
		Name:         input.Name,
		StartsAt:     input.StartsAt,
		EndsAt:       input.StartsAt.AddDate(0, 0, 7*totalWeeks),
		GameDuration: input.GameDuration,
		Evaluation:   input.Evaluation,
		TeamIDs:      append([]string(nil), input.TeamIDs...),
	}
	if err := item2.Validate(); err != nil {
		return season.Season{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	games := make([]game.Game, 0, len(input.TeamIDs)*(len(input.TeamIDs)-1))
	for weekIdx, pairings := range weeks {
		weekStart := input.StartsAt.AddDate(0, 0, 7*weekIdx)
		for _, p := range pairings {
			gameID, err := s.idGen.NewID()
			if err != nil {
				return season.Season{}, nil, fmt.Errorf("generate game id: %w", err)
			}
			g := game.Game{
				ID:         gameID,
				SeasonID:   seasonID,
				Week:       weekIdx + 1,
				HomeTeamID: p.home,
				AwayTeamID: p.away,
				Status:     game.StatusScheduled,
				StartsAt:   weekStart,
				EndsAt:     weekStart.Add(input.GameDuration),
			}
			if err := g.Validate(); err != nil {
				return season.Season{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			games = append(games, g)
		}
	}

	if err := s.seasonRepo.Create(ctx, item2); err != nil {
		return season.Season{}, nil, fmt.Errorf("create season: %w", err)
	}
	if err := s.gameRepo.CreateBatch(ctx, games); err != nil {
		return season.Season{}, nil, fmt.Errorf("create games: %w", err)
	}

	standings := make([]standing.Standing, 0, len(input.TeamIDs))
	for _, teamID := range input.TeamIDs {
		standings = append(standings, standing.Standing{SeasonID: seasonID, TeamID: teamID})
	}
	if err := s.standingRepo.CreateBatch(ctx, standings); err != nil {
		return season.Season{}, nil, fmt.Errorf("create standings: %w", err)
	}

	s.logger.InfoContext(ctx, "season schedule created",
		"season_id", seasonID,
		"league_id", input.LeagueID,
		"teams", len(input.TeamIDs),
		"games", len(games),
		"weeks", totalWeeks,
	)

	return item2, games, nil
}

type pairing struct {
	home string
	away string
}

// roundRobinWeeks produces a circle-method double round robin. For N
// teams it yields 2*(N-1) weeks of N/2 pairings each; every ordered pair
// (A, B) with A != B appears exactly once with A at home, and no team
// plays twice in the same week.
func roundRobinWeeks(teamIDs []string) [][]pairing {
	n := len(teamIDs)
	rounds := n - 1
	perWeek := n / 2

	rotation := append([]string(nil), teamIDs...)
	firstHalf := make([][]pairing, 0, rounds)
	for round := 0; round < rounds; round++ {
		week := make([]pairing, 0, perWeek)
		for i := 0; i < perWeek; i++ {
			a := rotation[i]
			b := rotation[n-1-i]
			// Alternate which side hosts so home games spread evenly
			// across the first cycle.
			if round%2 == i%2 {
				week = append(week, pairing{home: a, away: b})
			} else {
				week = append(week, pairing{home: b, away: a})
			}
		}
		firstHalf = append(firstHalf, week)

		// Rotate all but the first element clockwise.
		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}

	weeks := make([][]pairing, 0, 2*rounds)
	weeks = append(weeks, firstHalf...)
	for _, week := range firstHalf {
		mirror := make([]pairing, 0, len(week))
		for _, p := range week {
			mirror = append(mirror, pairing{home: p.away, away: p.home})
		}
		weeks = append(weeks, mirror)
	}

	return weeks
}
