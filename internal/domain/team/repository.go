package team

import "context"

// Repository describes team and roster persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Team) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)

	AddMember(ctx context.Context, member Membership) error
	ListActiveMembers(ctx context.Context, teamID string) ([]Membership, error)
	ListActiveMembershipsByUser(ctx context.Context, userID string) ([]Membership, error)
}
