package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fitclash/league-engine/internal/domain/standing"
)

type StandingRepository struct {
	mu    sync.RWMutex
	items map[string]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{items: make(map[string]standing.Standing)}
}

func standingKey(seasonID, teamID string) string {
	return seasonID + "/" + teamID
}

func (r *StandingRepository) CreateBatch(_ context.Context, standings []standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range standings {
		r.items[standingKey(item.SeasonID, item.TeamID)] = item
	}
	return nil
}

func (r *StandingRepository) Get(_ context.Context, seasonID, teamID string) (standing.Standing, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[standingKey(seasonID, teamID)]
	return item, ok, nil
}

func (r *StandingRepository) Update(_ context.Context, item standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[standingKey(item.SeasonID, item.TeamID)] = item
	return nil
}

func (r *StandingRepository) ListBySeason(_ context.Context, seasonID string) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standing.Standing, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}
