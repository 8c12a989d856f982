package summary

import "context"

type Repository interface {
	Create(ctx context.Context, item GameSummary) error
	GetByGame(ctx context.Context, gameID string) (GameSummary, bool, error)
}
