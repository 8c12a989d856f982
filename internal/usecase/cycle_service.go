package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/notification"
	"github.com/fitclash/league-engine/internal/platform/logging"
	"github.com/fitclash/league-engine/internal/platform/resilience"
)

// CycleService drives the game lifecycle off the wall clock: scheduled
// games whose start has passed become in-progress, in-progress games
// whose end has passed become finished. Transitions are compare-and-set
// in the repository so a game is moved, and its notification emitted,
// at most once.
type CycleService struct {
	gameRepo   game.Repository
	publisher  notification.Publisher
	logger     *logging.Logger
	now        func() time.Time
	tickFlight resilience.SingleFlight
}

// TickResult summarizes one cycle pass.
type TickResult struct {
	Started  int
	Finished int
}

type ForceStartInput struct {
	SeasonID string        `validate:"required"`
	Week     int           `validate:"required,min=1"`
	Duration time.Duration `validate:"required,gt=0"`
}

func NewCycleService(gameRepo game.Repository, publisher notification.Publisher, logger *logging.Logger) *CycleService {
	if publisher == nil {
		publisher = notification.NewNoopPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &CycleService{
		gameRepo:  gameRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Tick runs one cycle pass. Concurrent callers share a single run.
func (s *CycleService) Tick(ctx context.Context) (TickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CycleService.Tick")
	defer span.End()

	value, err, _ := s.tickFlight.Do("tick", func() (any, error) {
		return s.tick(ctx)
	})
	if err != nil {
		return TickResult{}, err
	}

	result, _ := value.(TickResult)
	return result, nil
}

func (s *CycleService) tick(ctx context.Context) (TickResult, error) {
	now := s.now().UTC()
	var result TickResult

	due, err := s.gameRepo.ListDueForStart(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list games due for start: %w", err)
	}
	for _, g := range due {
		updated, applied, err := s.gameRepo.TransitionStatus(ctx, g.ID, game.StatusScheduled, game.StatusInProgress)
		if err != nil {
			return result, fmt.Errorf("start game %s: %w", g.ID, err)
		}
		if !applied {
			continue
		}
		result.Started++
		s.logger.InfoContext(ctx, "game started", "game_id", g.ID, "season_id", g.SeasonID, "week", g.Week)
		s.publishTransition(ctx, notification.EventGameStarted, updated)
	}

	ended, err := s.gameRepo.ListDueForFinish(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list games due for finish: %w", err)
	}
	for _, g := range ended {
		updated, applied, err := s.gameRepo.TransitionStatus(ctx, g.ID, game.StatusInProgress, game.StatusFinished)
		if err != nil {
			return result, fmt.Errorf("finish game %s: %w", g.ID, err)
		}
		if !applied {
			continue
		}
		result.Finished++
		s.logger.InfoContext(ctx, "game finished", "game_id", g.ID, "season_id", g.SeasonID, "week", g.Week)
		s.publishTransition(ctx, notification.EventGameFinished, updated)
	}

	return result, nil
}

// ForceStart moves all still-scheduled games of a season week to
// in-progress immediately, with a live window of the requested
// duration starting now.
func (s *CycleService) ForceStart(ctx context.Context, input ForceStartInput) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CycleService.ForceStart")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListBySeasonWeek(ctx, input.SeasonID, input.Week)
	if err != nil {
		return nil, fmt.Errorf("list week games: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: season=%s week=%d", ErrNotFound, input.SeasonID, input.Week)
	}

	now := s.now().UTC()
	started := make([]game.Game, 0, len(games))
	for _, g := range games {
		if g.Status != game.StatusScheduled {
			continue
		}
		updated, applied, err := s.gameRepo.ForceStart(ctx, g.ID, now, now.Add(input.Duration))
		if err != nil {
			return started, fmt.Errorf("force start game %s: %w", g.ID, err)
		}
		if !applied {
			continue
		}
		started = append(started, updated)
		s.logger.InfoContext(ctx, "game force started",
			"game_id", g.ID,
			"season_id", g.SeasonID,
			"week", g.Week,
			"ends_at", updated.EndsAt,
		)
		s.publishTransition(ctx, notification.EventGameStarted, updated)
	}

	return started, nil
}

func (s *CycleService) publishTransition(ctx context.Context, eventType notification.EventType, g game.Game) {
	err := s.publisher.Publish(ctx, notification.Event{
		Type:       eventType,
		GameID:     g.ID,
		HomeScore:  g.HomeScore,
		AwayScore:  g.AwayScore,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "publish game transition failed",
			"game_id", g.ID,
			"event", string(eventType),
			"error", err,
		)
	}
}
