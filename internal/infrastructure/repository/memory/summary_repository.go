package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fitclash/league-engine/internal/domain/summary"
)

type SummaryRepository struct {
	mu     sync.RWMutex
	byGame map[string]summary.GameSummary
}

func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{byGame: make(map[string]summary.GameSummary)}
}

func (r *SummaryRepository) Create(_ context.Context, item summary.GameSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byGame[item.GameID]; exists {
		return fmt.Errorf("summary for game %s already exists", item.GameID)
	}
	r.byGame[item.GameID] = item
	return nil
}

func (r *SummaryRepository) GetByGame(_ context.Context, gameID string) (summary.GameSummary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byGame[gameID]
	return item, ok, nil
}
