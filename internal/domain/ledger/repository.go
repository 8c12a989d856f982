package ledger

import (
	"context"

	"github.com/fitclash/league-engine/internal/domain/game"
)

// Repository is the transactional score ledger. Every mutation keeps the
// game's denormalized aggregates equal to the per-side sums of the
// remaining events before it returns; concurrent mutations on the same
// game are serialized by the implementation.
type Repository interface {
	// AppendEvent inserts the event, bumps the matching side's aggregate
	// and updates the last scorer, all atomically. It returns the game
	// after the mutation and false when an event for the same workout
	// reference already exists (in which case nothing changes).
	AppendEvent(ctx context.Context, event ScoreEvent) (game.Game, bool, error)

	// RemoveByWorkoutRefs deletes all events matching the workout
	// references and recomputes both side aggregates of every affected
	// game from the remaining events. It returns the affected games in
	// their post-removal state.
	RemoveByWorkoutRefs(ctx context.Context, workoutRefs []string) ([]game.Game, error)

	// AdjustAggregate applies an out-of-band correction to one side's
	// aggregate, clamped at zero. No score event is written.
	AdjustAggregate(ctx context.Context, gameID string, side game.Side, delta int) (game.Game, error)

	// SumsByUser returns per-user totals over the stored events of a game.
	SumsByUser(ctx context.Context, gameID string) ([]UserTotal, error)

	ListByGame(ctx context.Context, gameID string) ([]ScoreEvent, error)
	CountBySide(ctx context.Context, gameID string, side game.Side) (int, error)
}
