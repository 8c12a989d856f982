package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/league"
	"github.com/fitclash/league-engine/internal/domain/season"
	"github.com/fitclash/league-engine/internal/domain/standing"
	"github.com/fitclash/league-engine/internal/domain/team"
	idgen "github.com/fitclash/league-engine/internal/platform/id"
)

// LeagueService covers league and team administration plus season
// table queries.
type LeagueService struct {
	leagueRepo   league.Repository
	teamRepo     team.Repository
	seasonRepo   season.Repository
	gameRepo     game.Repository
	standingRepo standing.Repository
	idGen        idgen.Generator
	now          func() time.Time
}

type CreateLeagueInput struct {
	Name     string `validate:"required"`
	MaxTeams int    `validate:"required,min=2"`
}

type CreateTeamInput struct {
	LeagueID string `validate:"required"`
	Name     string `validate:"required"`
}

type AddMemberInput struct {
	TeamID   string `validate:"required"`
	UserID   string `validate:"required"`
	Username string `validate:"required"`
	JoinedAt time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	seasonRepo season.Repository,
	gameRepo game.Repository,
	standingRepo standing.Repository,
	idGen idgen.Generator,
) *LeagueService {
	return &LeagueService{
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		seasonRepo:   seasonRepo,
		gameRepo:     gameRepo,
		standingRepo: standingRepo,
		idGen:        idGen,
		now:          time.Now,
	}
}

func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return league.League{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	item := league.League{ID: id, Name: input.Name, MaxTeams: input.MaxTeams}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.leagueRepo.Create(ctx, item); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	return item, nil
}

func (s *LeagueService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateTeam")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return team.Team{}, err
	}

	owner, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}

	existing, err := s.teamRepo.ListByLeague(ctx, input.LeagueID)
	if err != nil {
		return team.Team{}, fmt.Errorf("list teams: %w", err)
	}
	if len(existing) >= owner.MaxTeams {
		return team.Team{}, fmt.Errorf("%w: league %s is full (%d teams)", ErrConflict, input.LeagueID, owner.MaxTeams)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	item := team.Team{ID: id, LeagueID: input.LeagueID, Name: input.Name}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.Create(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	return item, nil
}

func (s *LeagueService) AddMember(ctx context.Context, input AddMemberInput) (team.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.AddMember")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return team.Membership{}, err
	}

	_, exists, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return team.Membership{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Membership{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}

	joinedAt := input.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = s.now().UTC()
	}

	member := team.Membership{
		TeamID:   input.TeamID,
		UserID:   input.UserID,
		Username: input.Username,
		JoinedAt: joinedAt,
		Active:   true,
	}
	if err := member.Validate(); err != nil {
		return team.Membership{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return team.Membership{}, fmt.Errorf("add member: %w", err)
	}

	return member, nil
}

// SeasonTable returns the season's standings ordered for display:
// points, then wins, then team id for a stable table.
func (s *LeagueService) SeasonTable(ctx context.Context, seasonID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.SeasonTable")
	defer span.End()

	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	_, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	items, err := s.standingRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Points != items[j].Points {
			return items[i].Points > items[j].Points
		}
		if items[i].Wins != items[j].Wins {
			return items[i].Wins > items[j].Wins
		}
		return items[i].TeamID < items[j].TeamID
	})

	return items, nil
}

func (s *LeagueService) ListGames(ctx context.Context, seasonID string) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListGames")
	defer span.End()

	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	_, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	items, err := s.gameRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Week != items[j].Week {
			return items[i].Week < items[j].Week
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}
