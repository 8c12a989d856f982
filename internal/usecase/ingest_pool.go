package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/fitclash/league-engine/internal/platform/logging"
)

const defaultIngestWorkers = 8

// IngestPool fans workout-completion events out over a bounded worker
// pool. The ingestion path is the hot path of the engine; ledger
// serialization per game keeps concurrent workers correct.
type IngestPool struct {
	scoreSvc *ScoreService
	pool     *ants.Pool
	logger   *logging.Logger
	wg       sync.WaitGroup
}

func NewIngestPool(scoreSvc *ScoreService, workers int, logger *logging.Logger) (*IngestPool, error) {
	if workers <= 0 {
		workers = defaultIngestWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	p, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create ingest worker pool: %w", err)
	}

	return &IngestPool{
		scoreSvc: scoreSvc,
		pool:     p,
		logger:   logger,
	}, nil
}

// Submit queues one workout event for asynchronous ingestion. It blocks
// only while the pool is saturated.
func (p *IngestPool) Submit(ctx context.Context, event WorkoutEvent) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()

		result, err := p.scoreSvc.IngestWorkout(ctx, event)
		if err != nil {
			p.logger.ErrorContext(ctx, "workout ingestion failed",
				"user_id", event.UserID,
				"workout_ref", event.WorkoutRef,
				"error", err,
			)
			return
		}
		if result.Recorded > 0 {
			p.logger.DebugContext(ctx, "workout ingested",
				"user_id", event.UserID,
				"workout_ref", event.WorkoutRef,
				"recorded", result.Recorded,
				"skipped", result.Skipped,
			)
		}
	})
	if err != nil {
		p.wg.Done()
		return fmt.Errorf("submit workout to pool: %w", err)
	}

	return nil
}

// Drain waits for all queued events to finish, then releases the pool.
func (p *IngestPool) Drain() {
	p.wg.Wait()
	p.pool.Release()
}
