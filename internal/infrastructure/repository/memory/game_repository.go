package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fitclash/league-engine/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{items: make(map[string]game.Game)}
}

func (r *GameRepository) CreateBatch(_ context.Context, games []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range games {
		r.items[g.ID] = g
	}
	return nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	return g, ok, nil
}

func (r *GameRepository) ListBySeason(_ context.Context, seasonID string) ([]game.Game, error) {
	return r.list(func(g game.Game) bool { return g.SeasonID == seasonID })
}

func (r *GameRepository) ListBySeasonWeek(_ context.Context, seasonID string, week int) ([]game.Game, error) {
	return r.list(func(g game.Game) bool { return g.SeasonID == seasonID && g.Week == week })
}

func (r *GameRepository) ListByStatus(_ context.Context, status game.Status) ([]game.Game, error) {
	return r.list(func(g game.Game) bool { return g.Status == status })
}

func (r *GameRepository) ListDueForStart(_ context.Context, now time.Time) ([]game.Game, error) {
	return r.list(func(g game.Game) bool {
		return g.Status == game.StatusScheduled && !g.StartsAt.After(now)
	})
}

func (r *GameRepository) ListDueForFinish(_ context.Context, now time.Time) ([]game.Game, error) {
	return r.list(func(g game.Game) bool {
		return g.Status == game.StatusInProgress && !g.EndsAt.After(now)
	})
}

func (r *GameRepository) ListInProgressByTeams(_ context.Context, teamIDs []string) ([]game.Game, error) {
	wanted := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = struct{}{}
	}
	return r.list(func(g game.Game) bool {
		if g.Status != game.StatusInProgress {
			return false
		}
		_, home := wanted[g.HomeTeamID]
		_, away := wanted[g.AwayTeamID]
		return home || away
	})
}

func (r *GameRepository) TransitionStatus(_ context.Context, gameID string, from, to game.Status) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.items[gameID]
	if !ok || g.Status != from || !game.ValidTransition(from, to) {
		return g, false, nil
	}

	g.Status = to
	r.items[gameID] = g
	return g, true, nil
}

func (r *GameRepository) ForceStart(_ context.Context, gameID string, startsAt, endsAt time.Time) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.items[gameID]
	if !ok || g.Status != game.StatusScheduled {
		return g, false, nil
	}

	g.Status = game.StatusInProgress
	g.StartsAt = startsAt
	g.EndsAt = endsAt
	r.items[gameID] = g
	return g, true, nil
}

func (r *GameRepository) list(match func(game.Game) bool) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, g := range r.items {
		if match(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// mutate applies fn to one game under the write lock. Used by the
// ledger repository to keep event inserts and aggregate updates atomic.
func (r *GameRepository) mutate(gameID string, fn func(*game.Game)) (game.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false
	}
	fn(&g)
	r.items[gameID] = g
	return g, true
}
