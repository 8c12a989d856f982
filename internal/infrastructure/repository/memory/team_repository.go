package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fitclash/league-engine/internal/domain/team"
)

type TeamRepository struct {
	mu      sync.RWMutex
	items   map[string]team.Team
	rosters map[string][]team.Membership
}

func NewTeamRepository(seed []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}
	return &TeamRepository{
		items:   items,
		rosters: make(map[string][]team.Membership),
	}
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.items {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) AddMember(_ context.Context, member team.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	roster := r.rosters[member.TeamID]
	for i, existing := range roster {
		if existing.UserID == member.UserID {
			roster[i] = member
			return nil
		}
	}
	r.rosters[member.TeamID] = append(roster, member)
	return nil
}

func (r *TeamRepository) ListActiveMembers(_ context.Context, teamID string) ([]team.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Membership, 0)
	for _, member := range r.rosters[teamID] {
		if member.Active {
			out = append(out, member)
		}
	}
	return out, nil
}

func (r *TeamRepository) ListActiveMembershipsByUser(_ context.Context, userID string) ([]team.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Membership, 0)
	for _, roster := range r.rosters {
		for _, member := range roster {
			if member.UserID == userID && member.Active {
				out = append(out, member)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}
