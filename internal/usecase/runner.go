package usecase

import (
	"context"
	"time"

	"github.com/fitclash/league-engine/internal/platform/logging"
)

// Runner invokes a task on a fixed interval until the context ends.
// Ticks run strictly one after another on the runner goroutine; a slow
// task delays the next tick instead of overlapping it.
type Runner struct {
	name     string
	interval time.Duration
	task     func(context.Context) error
	logger   *logging.Logger
}

func NewRunner(name string, interval time.Duration, task func(context.Context) error, logger *logging.Logger) *Runner {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Runner{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.With("runner", name),
	}
}

// Start blocks until ctx is cancelled. Task errors are logged, never
// fatal: the next tick always happens.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("runner starting", "interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return
		case <-ticker.C:
			if err := r.task(ctx); err != nil {
				r.logger.ErrorContext(ctx, "runner tick failed", "error", err)
			}
		}
	}
}
