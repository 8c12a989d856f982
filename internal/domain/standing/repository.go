package standing

import "context"

type Repository interface {
	CreateBatch(ctx context.Context, standings []Standing) error
	Get(ctx context.Context, seasonID, teamID string) (Standing, bool, error)
	Update(ctx context.Context, item Standing) error
	ListBySeason(ctx context.Context, seasonID string) ([]Standing, error)
}
