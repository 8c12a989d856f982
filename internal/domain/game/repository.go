package game

import (
	"context"
	"time"
)

// Repository describes game persistence needs from use cases. Status
// mutations are compare-and-set so concurrent runners never repeat a
// transition.
type Repository interface {
	CreateBatch(ctx context.Context, games []Game) error
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Game, error)
	ListBySeasonWeek(ctx context.Context, seasonID string, week int) ([]Game, error)
	ListByStatus(ctx context.Context, status Status) ([]Game, error)

	// ListDueForStart returns scheduled games whose start time has passed.
	ListDueForStart(ctx context.Context, now time.Time) ([]Game, error)
	// ListDueForFinish returns in-progress games whose end time has passed.
	ListDueForFinish(ctx context.Context, now time.Time) ([]Game, error)
	// ListInProgressByTeams returns live games involving any of the teams.
	ListInProgressByTeams(ctx context.Context, teamIDs []string) ([]Game, error)

	// TransitionStatus moves a game from one status to the next if and only
	// if it still is in the expected status. The bool reports whether the
	// transition was applied.
	TransitionStatus(ctx context.Context, gameID string, from, to Status) (Game, bool, error)
	// ForceStart atomically moves a scheduled game to in-progress with a
	// fresh live window.
	ForceStart(ctx context.Context, gameID string, startsAt, endsAt time.Time) (Game, bool, error)
}
