package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/ledger"
	"github.com/fitclash/league-engine/internal/domain/notification"
	"github.com/fitclash/league-engine/internal/domain/season"
	"github.com/fitclash/league-engine/internal/domain/standing"
	"github.com/fitclash/league-engine/internal/domain/summary"
	idgen "github.com/fitclash/league-engine/internal/platform/id"
	"github.com/fitclash/league-engine/internal/platform/logging"
	"github.com/fitclash/league-engine/internal/platform/resilience"
)

// EvaluationService turns finished games into standings updates and
// game summaries. Each game is evaluated independently: one game's
// failure never aborts the rest of the batch. Evaluation is terminal
// and once-only, gated by the compare-and-set transition to Evaluated.
type EvaluationService struct {
	gameRepo     game.Repository
	seasonRepo   season.Repository
	standingRepo standing.Repository
	summaryRepo  summary.Repository
	scoreSvc     *ScoreService
	publisher    notification.Publisher
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
	runFlight    resilience.SingleFlight
}

// GameError ties one failed evaluation to its game.
type GameError struct {
	GameID string
	Err    error
}

// EvaluationReport is the per-run outcome: how many games were
// evaluated, how many standing rows changed, and which games failed.
type EvaluationReport struct {
	Evaluated int
	Updated   int
	Errors    []GameError
}

type EvaluateDateInput struct {
	// Date in 2006-01-02 form, interpreted in each season's evaluation
	// timezone.
	Date string `validate:"required,datetime=2006-01-02"`
	// SeasonID optionally narrows the run to one season.
	SeasonID string
}

func NewEvaluationService(
	gameRepo game.Repository,
	seasonRepo season.Repository,
	standingRepo standing.Repository,
	summaryRepo summary.Repository,
	scoreSvc *ScoreService,
	publisher notification.Publisher,
	idGen idgen.Generator,
	logger *logging.Logger,
) *EvaluationService {
	if publisher == nil {
		publisher = notification.NewNoopPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &EvaluationService{
		gameRepo:     gameRepo,
		seasonRepo:   seasonRepo,
		standingRepo: standingRepo,
		summaryRepo:  summaryRepo,
		scoreSvc:     scoreSvc,
		publisher:    publisher,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// EvaluateDue evaluates every finished game of seasons whose evaluation
// policy is enabled. Concurrent callers share a single run.
func (s *EvaluationService) EvaluateDue(ctx context.Context) (EvaluationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluateDue")
	defer span.End()

	value, err, _ := s.runFlight.Do("evaluate-due", func() (any, error) {
		return s.evaluateDue(ctx)
	})
	if err != nil {
		return EvaluationReport{}, err
	}

	report, _ := value.(EvaluationReport)
	return report, nil
}

func (s *EvaluationService) evaluateDue(ctx context.Context) (EvaluationReport, error) {
	games, err := s.gameRepo.ListByStatus(ctx, game.StatusFinished)
	if err != nil {
		return EvaluationReport{}, fmt.Errorf("list finished games: %w", err)
	}

	seasons := make(map[string]season.Season)
	eligible := games[:0:0]
	for _, g := range games {
		se, err := s.seasonOf(ctx, seasons, g.SeasonID)
		if err != nil {
			return EvaluationReport{}, err
		}
		if !se.Evaluation.Enabled {
			continue
		}
		eligible = append(eligible, g)
	}

	return s.evaluateBatch(ctx, eligible), nil
}

// EvaluateForDate evaluates finished games whose live window ended on
// the given calendar date, in the owning season's timezone.
func (s *EvaluationService) EvaluateForDate(ctx context.Context, input EvaluateDateInput) (EvaluationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluateForDate")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return EvaluationReport{}, err
	}

	games, err := s.gameRepo.ListByStatus(ctx, game.StatusFinished)
	if err != nil {
		return EvaluationReport{}, fmt.Errorf("list finished games: %w", err)
	}

	seasons := make(map[string]season.Season)
	eligible := games[:0:0]
	for _, g := range games {
		if input.SeasonID != "" && g.SeasonID != input.SeasonID {
			continue
		}
		se, err := s.seasonOf(ctx, seasons, g.SeasonID)
		if err != nil {
			return EvaluationReport{}, err
		}
		if g.EndsAt.In(se.Location()).Format("2006-01-02") != input.Date {
			continue
		}
		eligible = append(eligible, g)
	}

	return s.evaluateBatch(ctx, eligible), nil
}

// EvaluateGame evaluates one specific game. A game that is not in
// Finished state is a conflict; an already evaluated game is never
// re-applied.
func (s *EvaluationService) EvaluateGame(ctx context.Context, gameID string) (summary.GameSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluateGame")
	defer span.End()

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return summary.GameSummary{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return summary.GameSummary{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if g.Status != game.StatusFinished {
		return summary.GameSummary{}, fmt.Errorf("%w: game %s is %s, not %s", ErrConflict, gameID, g.Status, game.StatusFinished)
	}

	return s.evaluateGame(ctx, g)
}

func (s *EvaluationService) evaluateBatch(ctx context.Context, games []game.Game) EvaluationReport {
	var report EvaluationReport
	for _, g := range games {
		if _, err := s.evaluateGame(ctx, g); err != nil {
			s.logger.ErrorContext(ctx, "game evaluation failed", "game_id", g.ID, "error", err)
			report.Errors = append(report.Errors, GameError{GameID: g.ID, Err: err})
			continue
		}
		report.Evaluated++
		report.Updated += 2
	}

	if report.Evaluated > 0 || len(report.Errors) > 0 {
		s.logger.InfoContext(ctx, "evaluation run complete",
			"evaluated", report.Evaluated,
			"updated_standings", report.Updated,
			"failed", len(report.Errors),
		)
	}

	return report
}

func (s *EvaluationService) evaluateGame(ctx context.Context, g game.Game) (summary.GameSummary, error) {
	// Re-read so the evaluated aggregates reflect any workout deletions
	// that landed after the batch listing.
	fresh, exists, err := s.gameRepo.GetByID(ctx, g.ID)
	if err != nil {
		return summary.GameSummary{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return summary.GameSummary{}, fmt.Errorf("%w: game=%s", ErrNotFound, g.ID)
	}
	g = fresh
	if g.Status != game.StatusFinished {
		return summary.GameSummary{}, fmt.Errorf("%w: game %s is %s, not %s", ErrConflict, g.ID, g.Status, game.StatusFinished)
	}

	if _, exists, err := s.summaryRepo.GetByGame(ctx, g.ID); err != nil {
		return summary.GameSummary{}, fmt.Errorf("check existing summary: %w", err)
	} else if exists {
		return summary.GameSummary{}, fmt.Errorf("%w: game %s already has a summary", ErrConflict, g.ID)
	}

	homeWon := g.HomeScore > g.AwayScore
	awayWon := g.AwayScore > g.HomeScore
	drew := g.HomeScore == g.AwayScore

	contributions, err := s.scoreSvc.GetContributions(ctx, g.ID)
	if err != nil {
		return summary.GameSummary{}, fmt.Errorf("collect contributions: %w", err)
	}

	item, err := s.buildSummary(ctx, g, contributions)
	if err != nil {
		return summary.GameSummary{}, err
	}

	// The status transition is the claim: it is compare-and-set, so when
	// a manual evaluation races the sweep only one caller wins and only
	// the winner touches standings.
	if _, applied, err := s.gameRepo.TransitionStatus(ctx, g.ID, game.StatusFinished, game.StatusEvaluated); err != nil {
		return summary.GameSummary{}, fmt.Errorf("transition to evaluated: %w", err)
	} else if !applied {
		return summary.GameSummary{}, fmt.Errorf("%w: game %s left %s state during evaluation", ErrConflict, g.ID, game.StatusFinished)
	}

	if err := s.summaryRepo.Create(ctx, item); err != nil {
		return summary.GameSummary{}, fmt.Errorf("create summary: %w", err)
	}

	if err := s.applyStanding(ctx, g.SeasonID, g.HomeTeamID, homeWon, drew); err != nil {
		return summary.GameSummary{}, err
	}
	if err := s.applyStanding(ctx, g.SeasonID, g.AwayTeamID, awayWon, drew); err != nil {
		return summary.GameSummary{}, err
	}

	s.publishSummary(ctx, g, item)

	return item, nil
}

func (s *EvaluationService) applyStanding(ctx context.Context, seasonID, teamID string, won, drew bool) error {
	row, exists, err := s.standingRepo.Get(ctx, seasonID, teamID)
	if err != nil {
		return fmt.Errorf("get standing: %w", err)
	}
	if !exists {
		row = standing.Standing{SeasonID: seasonID, TeamID: teamID}
	}

	row.ApplyResult(won, drew)

	if err := s.standingRepo.Update(ctx, row); err != nil {
		return fmt.Errorf("update standing: %w", err)
	}

	return nil
}

func (s *EvaluationService) buildSummary(ctx context.Context, g game.Game, contributions []ledger.Contribution) (summary.GameSummary, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return summary.GameSummary{}, fmt.Errorf("generate summary id: %w", err)
	}

	mvp := pickMostValuable(contributions)
	lvp := pickLeastValuable(contributions, mvp.UserID)

	item := summary.GameSummary{
		ID:        id,
		GameID:    g.ID,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
		MVP:       mvp,
		LVP:       lvp,
		CreatedAt: s.now().UTC(),
	}

	for _, side := range []game.Side{game.SideHome, game.SideAway} {
		var members []ledger.Contribution
		for _, c := range contributions {
			if c.Side == side {
				members = append(members, c)
			}
		}

		stats := summary.SideStats{
			TopScorer: pickMostValuable(members),
		}
		if len(members) > 0 {
			stats.AveragePoints = float64(g.ScoreOf(side)) / float64(len(members))
		}

		count, err := s.scoreSvc.ledgerRepo.CountBySide(ctx, g.ID, side)
		if err != nil {
			return summary.GameSummary{}, fmt.Errorf("count side workouts: %w", err)
		}
		stats.Workouts = count

		if side == game.SideHome {
			item.Home = stats
		} else {
			item.Away = stats
			item.AwayLowest = pickLeastValuable(members, "")
		}
	}

	return item, nil
}

// pickMostValuable selects the highest contributor; ties break on the
// earlier last-contribution time, then user id. Zero-contributors sort
// behind anyone who scored.
func pickMostValuable(contributions []ledger.Contribution) summary.PlayerLine {
	var best *ledger.Contribution
	for i := range contributions {
		c := &contributions[i]
		if best == nil || moreValuable(c, best) {
			best = c
		}
	}
	if best == nil {
		return summary.PlayerLine{}
	}
	return summary.PlayerLine{UserID: best.UserID, Username: best.Username, Points: best.Points}
}

// pickLeastValuable selects the lowest contributor, including members
// with zero events, skipping the given user so MVP and LVP never
// coincide on rosters with more than one member.
func pickLeastValuable(contributions []ledger.Contribution, skipUserID string) summary.PlayerLine {
	var worst *ledger.Contribution
	for i := range contributions {
		c := &contributions[i]
		if c.UserID == skipUserID && len(contributions) > 1 {
			continue
		}
		if worst == nil || lessValuable(c, worst) {
			worst = c
		}
	}
	if worst == nil {
		return summary.PlayerLine{}
	}
	return summary.PlayerLine{UserID: worst.UserID, Username: worst.Username, Points: worst.Points}
}

func moreValuable(a, b *ledger.Contribution) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	switch {
	case a.LastAt.IsZero() && !b.LastAt.IsZero():
		return false
	case !a.LastAt.IsZero() && b.LastAt.IsZero():
		return true
	case !a.LastAt.Equal(b.LastAt):
		return a.LastAt.Before(b.LastAt)
	}
	return a.UserID < b.UserID
}

func lessValuable(a, b *ledger.Contribution) bool {
	if a.Points != b.Points {
		return a.Points < b.Points
	}
	switch {
	case a.LastAt.IsZero() && !b.LastAt.IsZero():
		return true
	case !a.LastAt.IsZero() && b.LastAt.IsZero():
		return false
	case !a.LastAt.Equal(b.LastAt):
		return a.LastAt.After(b.LastAt)
	}
	return a.UserID > b.UserID
}

func (s *EvaluationService) seasonOf(ctx context.Context, seasons map[string]season.Season, seasonID string) (season.Season, error) {
	if se, ok := seasons[seasonID]; ok {
		return se, nil
	}
	se, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}
	seasons[seasonID] = se
	return se, nil
}

func (s *EvaluationService) publishSummary(ctx context.Context, g game.Game, item summary.GameSummary) {
	err := s.publisher.Publish(ctx, notification.Event{
		Type:        notification.EventGameSummaryCreated,
		GameID:      g.ID,
		HomeScore:   item.HomeScore,
		AwayScore:   item.AwayScore,
		SummaryID:   item.ID,
		MVPUsername: item.MVP.Username,
		LVPUsername: item.LVP.Username,
		OccurredAt:  s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "publish game summary failed", "game_id", g.ID, "error", err)
	}
}
