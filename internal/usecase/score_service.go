package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/ledger"
	"github.com/fitclash/league-engine/internal/domain/notification"
	"github.com/fitclash/league-engine/internal/domain/team"
	"github.com/fitclash/league-engine/internal/platform/cache"
	idgen "github.com/fitclash/league-engine/internal/platform/id"
	"github.com/fitclash/league-engine/internal/platform/logging"
)

const removeChunkSize = 64

// ScoreService is the score ledger front door: it resolves memberships,
// filters workout eligibility, records and removes contributions and
// applies operator adjustments. Aggregate consistency is delegated to
// the ledger repository's transactional contract.
type ScoreService struct {
	gameRepo   game.Repository
	teamRepo   team.Repository
	ledgerRepo ledger.Repository
	publisher  notification.Publisher
	rosters    *cache.Store
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

// WorkoutEvent is a completed workout handed over by the ingestion
// subsystem. Points default to the sum of the component breakdown.
type WorkoutEvent struct {
	UserID     string    `validate:"required"`
	Username   string    `validate:"required"`
	WorkoutRef string    `validate:"required"`
	StartedAt  time.Time `validate:"required"`
	EndedAt    time.Time `validate:"required"`
	Points     int       `validate:"min=0"`
	Breakdown  ledger.Breakdown
}

func (e WorkoutEvent) points() int {
	if e.Points > 0 {
		return e.Points
	}
	return e.Breakdown.Total()
}

// IngestResult reports the fan-out of one workout event over the user's
// live games.
type IngestResult struct {
	Recorded int
	Skipped  int
}

type AdjustScoreInput struct {
	GameID string `validate:"required"`
	Side   string `validate:"required,oneof=home away"`
	Delta  int    `validate:"required"`
	Reason string `validate:"required"`
}

func NewScoreService(
	gameRepo game.Repository,
	teamRepo team.Repository,
	ledgerRepo ledger.Repository,
	publisher notification.Publisher,
	rosters *cache.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ScoreService {
	if publisher == nil {
		publisher = notification.NewNoopPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoreService{
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		ledgerRepo: ledgerRepo,
		publisher:  publisher,
		rosters:    rosters,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// IngestWorkout applies one completed workout to every live game of the
// user's active teams. Eligibility rejections are a defined zero-effect
// outcome, not an error.
func (s *ScoreService) IngestWorkout(ctx context.Context, event WorkoutEvent) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.IngestWorkout")
	defer span.End()

	if err := validateInput(ctx, event); err != nil {
		return IngestResult{}, err
	}
	if event.EndedAt.Before(event.StartedAt) {
		return IngestResult{}, fmt.Errorf("%w: workout end precedes start", ErrInvalidInput)
	}

	memberships, err := s.teamRepo.ListActiveMembershipsByUser(ctx, event.UserID)
	if err != nil {
		return IngestResult{}, fmt.Errorf("list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return IngestResult{}, nil
	}

	teamIDs := make([]string, 0, len(memberships))
	joinedByTeam := make(map[string]team.Membership, len(memberships))
	for _, m := range memberships {
		teamIDs = append(teamIDs, m.TeamID)
		joinedByTeam[m.TeamID] = m
	}

	games, err := s.gameRepo.ListInProgressByTeams(ctx, teamIDs)
	if err != nil {
		return IngestResult{}, fmt.Errorf("list live games: %w", err)
	}

	var result IngestResult
	for _, g := range games {
		member, side, ok := resolveMembership(g, joinedByTeam)
		if !ok {
			continue
		}

		recorded, err := s.record(ctx, g, member, side, event)
		if err != nil {
			return result, err
		}
		if recorded {
			result.Recorded++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// RecordContribution applies one workout to one specific game.
func (s *ScoreService) RecordContribution(ctx context.Context, gameID string, event WorkoutEvent) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.RecordContribution")
	defer span.End()

	if err := validateInput(ctx, event); err != nil {
		return false, err
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return false, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	member, side, ok := s.resolveUser(ctx, g, event.UserID)
	if !ok {
		return false, nil
	}

	return s.record(ctx, g, member, side, event)
}

// record runs the eligibility filter and, on acceptance, appends the
// score event atomically with the aggregate bump.
func (s *ScoreService) record(ctx context.Context, g game.Game, member team.Membership, side game.Side, event WorkoutEvent) (bool, error) {
	if g.Status != game.StatusInProgress {
		return false, nil
	}
	if !g.Eligible(member.JoinedAt, event.StartedAt, event.EndedAt) {
		s.logger.DebugContext(ctx, "workout not eligible for game",
			"game_id", g.ID,
			"user_id", event.UserID,
			"workout_ref", event.WorkoutRef,
		)
		return false, nil
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		return false, fmt.Errorf("generate score event id: %w", err)
	}

	item := ledger.ScoreEvent{
		ID:         eventID,
		GameID:     g.ID,
		UserID:     event.UserID,
		Username:   event.Username,
		TeamID:     member.TeamID,
		Side:       side,
		Points:     event.points(),
		Breakdown:  event.Breakdown,
		WorkoutRef: event.WorkoutRef,
		OccurredAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, inserted, err := s.ledgerRepo.AppendEvent(ctx, item)
	if err != nil {
		return false, fmt.Errorf("append score event: %w", err)
	}
	if !inserted {
		// The workout was already recorded; re-processing is a no-op.
		return false, nil
	}

	s.publishLiveScore(ctx, updated)

	return true, nil
}

// RemoveWorkouts deletes all contributions of the given workouts and
// restores every affected game's aggregates to the sums of the
// remaining events. Large batches are chunked and processed
// concurrently; games touched by different chunks converge because each
// removal recomputes from scratch.
func (s *ScoreService) RemoveWorkouts(ctx context.Context, workoutRefs []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.RemoveWorkouts")
	defer span.End()

	refs := make([]string, 0, len(workoutRefs))
	for _, ref := range workoutRefs {
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return fmt.Errorf("%w: workout refs are required", ErrInvalidInput)
	}

	p := pool.NewWithResults[[]game.Game]().WithContext(ctx).WithMaxGoroutines(4)
	for start := 0; start < len(refs); start += removeChunkSize {
		end := start + removeChunkSize
		if end > len(refs) {
			end = len(refs)
		}
		chunk := refs[start:end]
		p.Go(func(ctx context.Context) ([]game.Game, error) {
			affected, err := s.ledgerRepo.RemoveByWorkoutRefs(ctx, chunk)
			if err != nil {
				return nil, fmt.Errorf("remove score events: %w", err)
			}
			return affected, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return err
	}

	seen := make(map[string]struct{})
	for _, affected := range results {
		for _, g := range affected {
			if _, ok := seen[g.ID]; ok {
				continue
			}
			seen[g.ID] = struct{}{}
			s.publishLiveScore(ctx, g)
		}
	}

	return nil
}

// AdjustScore applies an operator correction to one side's aggregate.
// The new score is clamped at zero and no score event is written; the
// reason is logged for audit.
func (s *ScoreService) AdjustScore(ctx context.Context, input AdjustScoreInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.AdjustScore")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return game.Game{}, err
	}

	side, err := game.ParseSide(input.Side)
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	updated, err := s.ledgerRepo.AdjustAggregate(ctx, input.GameID, side, input.Delta)
	if err != nil {
		return game.Game{}, fmt.Errorf("adjust aggregate: %w", err)
	}

	s.logger.InfoContext(ctx, "score adjusted",
		"game_id", input.GameID,
		"side", string(side),
		"delta", input.Delta,
		"reason", input.Reason,
	)
	s.publishLiveScore(ctx, updated)

	return updated, nil
}

// GetContributions returns totals for every active roster member of
// both teams of the game. Members without any score event appear with
// zero values.
func (s *ScoreService) GetContributions(ctx context.Context, gameID string) ([]ledger.Contribution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.GetContributions")
	defer span.End()

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	totals, err := s.ledgerRepo.SumsByUser(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("sum score events: %w", err)
	}
	totalByUser := make(map[string]ledger.UserTotal, len(totals))
	for _, t := range totals {
		totalByUser[t.UserID] = t
	}

	out := make([]ledger.Contribution, 0, len(totals))
	for _, teamID := range []string{g.HomeTeamID, g.AwayTeamID} {
		side, _ := g.SideOf(teamID)
		members, err := s.activeMembers(ctx, teamID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			c := ledger.Contribution{
				UserID:   m.UserID,
				Username: m.Username,
				TeamID:   teamID,
				Side:     side,
			}
			if t, ok := totalByUser[m.UserID]; ok && t.TeamID == teamID {
				c.Points = t.Points
				c.Events = t.Events
				c.LastAt = t.LastAt
			}
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].UserID < out[j].UserID
	})

	return out, nil
}

func (s *ScoreService) resolveUser(ctx context.Context, g game.Game, userID string) (team.Membership, game.Side, bool) {
	for _, teamID := range []string{g.HomeTeamID, g.AwayTeamID} {
		members, err := s.activeMembers(ctx, teamID)
		if err != nil {
			s.logger.WarnContext(ctx, "resolve membership failed", "team_id", teamID, "error", err)
			continue
		}
		for _, m := range members {
			if m.UserID == userID {
				side, _ := g.SideOf(teamID)
				return m, side, true
			}
		}
	}

	return team.Membership{}, "", false
}

// activeMembers reads a team roster through a short-lived cache;
// rosters change rarely compared to the ingestion rate.
func (s *ScoreService) activeMembers(ctx context.Context, teamID string) ([]team.Membership, error) {
	key := "roster:" + teamID
	if s.rosters != nil {
		if cached, ok := s.rosters.Get(ctx, key); ok {
			if members, ok := cached.([]team.Membership); ok {
				return members, nil
			}
		}
	}

	members, err := s.teamRepo.ListActiveMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}
	if s.rosters != nil {
		s.rosters.Set(ctx, key, members)
	}

	return members, nil
}

func resolveMembership(g game.Game, joinedByTeam map[string]team.Membership) (team.Membership, game.Side, bool) {
	if m, ok := joinedByTeam[g.HomeTeamID]; ok {
		return m, game.SideHome, true
	}
	if m, ok := joinedByTeam[g.AwayTeamID]; ok {
		return m, game.SideAway, true
	}
	return team.Membership{}, "", false
}

func (s *ScoreService) publishLiveScore(ctx context.Context, g game.Game) {
	event := notification.Event{
		Type:       notification.EventLiveScoreUpdate,
		GameID:     g.ID,
		HomeScore:  g.HomeScore,
		AwayScore:  g.AwayScore,
		OccurredAt: s.now().UTC(),
	}
	if g.LastScorer != nil {
		event.LastScorer = &notification.LastScorer{
			UserID:   g.LastScorer.UserID,
			Username: g.LastScorer.Username,
			Side:     string(g.LastScorer.Side),
			At:       g.LastScorer.At,
		}
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish live score failed", "game_id", g.ID, "error", err)
	}
}
