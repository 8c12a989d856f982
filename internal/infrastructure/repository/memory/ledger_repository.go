package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/ledger"
)

// LedgerRepository keeps the score event log and the game aggregates
// consistent under a single mutation lock. It shares game state with
// the GameRepository it is built from.
type LedgerRepository struct {
	mu       sync.Mutex
	games    *GameRepository
	byRef    map[string]ledger.ScoreEvent
	byGameID map[string][]string
}

func NewLedgerRepository(games *GameRepository) *LedgerRepository {
	return &LedgerRepository{
		games:    games,
		byRef:    make(map[string]ledger.ScoreEvent),
		byGameID: make(map[string][]string),
	}
}

func (r *LedgerRepository) AppendEvent(_ context.Context, event ledger.ScoreEvent) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byRef[event.WorkoutRef]; exists {
		g, _, _ := r.games.GetByID(context.Background(), event.GameID)
		return g, false, nil
	}

	updated, ok := r.games.mutate(event.GameID, func(g *game.Game) {
		if event.Side == game.SideHome {
			g.HomeScore += event.Points
		} else {
			g.AwayScore += event.Points
		}
		g.LastScorer = &game.LastScorer{
			UserID:   event.UserID,
			Username: event.Username,
			Side:     event.Side,
			At:       event.OccurredAt,
		}
	})
	if !ok {
		return game.Game{}, false, fmt.Errorf("game %s not found", event.GameID)
	}

	r.byRef[event.WorkoutRef] = event
	r.byGameID[event.GameID] = append(r.byGameID[event.GameID], event.WorkoutRef)

	return updated, true, nil
}

func (r *LedgerRepository) RemoveByWorkoutRefs(_ context.Context, workoutRefs []string) ([]game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := make(map[string]struct{})
	for _, ref := range workoutRefs {
		event, ok := r.byRef[ref]
		if !ok {
			continue
		}
		delete(r.byRef, ref)

		refs := r.byGameID[event.GameID]
		for i, candidate := range refs {
			if candidate == ref {
				r.byGameID[event.GameID] = append(refs[:i], refs[i+1:]...)
				break
			}
		}
		affected[event.GameID] = struct{}{}
	}

	out := make([]game.Game, 0, len(affected))
	for gameID := range affected {
		home, away := r.sums(gameID)
		updated, ok := r.games.mutate(gameID, func(g *game.Game) {
			g.HomeScore = home
			g.AwayScore = away
		})
		if !ok {
			continue
		}
		out = append(out, updated)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LedgerRepository) AdjustAggregate(_ context.Context, gameID string, side game.Side, delta int) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated, ok := r.games.mutate(gameID, func(g *game.Game) {
		if side == game.SideHome {
			g.HomeScore = clampScore(g.HomeScore + delta)
		} else {
			g.AwayScore = clampScore(g.AwayScore + delta)
		}
	})
	if !ok {
		return game.Game{}, fmt.Errorf("game %s not found", gameID)
	}

	return updated, nil
}

func (r *LedgerRepository) SumsByUser(_ context.Context, gameID string) ([]ledger.UserTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	totals := make(map[string]*ledger.UserTotal)
	for _, ref := range r.byGameID[gameID] {
		event := r.byRef[ref]
		t, ok := totals[event.UserID]
		if !ok {
			t = &ledger.UserTotal{
				UserID:   event.UserID,
				Username: event.Username,
				TeamID:   event.TeamID,
				Side:     event.Side,
			}
			totals[event.UserID] = t
		}
		t.Points += event.Points
		t.Events++
		if event.OccurredAt.After(t.LastAt) {
			t.LastAt = event.OccurredAt
		}
	}

	out := make([]ledger.UserTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *LedgerRepository) ListByGame(_ context.Context, gameID string) ([]ledger.ScoreEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ledger.ScoreEvent, 0, len(r.byGameID[gameID]))
	for _, ref := range r.byGameID[gameID] {
		out = append(out, r.byRef[ref])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LedgerRepository) CountBySide(_ context.Context, gameID string, side game.Side) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, ref := range r.byGameID[gameID] {
		if r.byRef[ref].Side == side {
			count++
		}
	}
	return count, nil
}

func (r *LedgerRepository) sums(gameID string) (home, away int) {
	for _, ref := range r.byGameID[gameID] {
		event := r.byRef[ref]
		if event.Side == game.SideHome {
			home += event.Points
		} else {
			away += event.Points
		}
	}
	return home, away
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

