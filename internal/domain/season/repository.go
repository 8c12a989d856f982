package season

import "context"

type Repository interface {
	Create(ctx context.Context, item Season) error
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Season, error)
	List(ctx context.Context) ([]Season, error)
}
