package memory

import (
	"time"

	"github.com/fitclash/league-engine/internal/domain/league"
	"github.com/fitclash/league-engine/internal/domain/team"
)

// Dev-mode fixtures for running the engine without a database.

func SeedLeagues() []league.League {
	return []league.League{
		{ID: "office-fit-cup", Name: "Office Fit Cup", MaxTeams: 8},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-ironworks", LeagueID: "office-fit-cup", Name: "Ironworks"},
		{ID: "team-pacers", LeagueID: "office-fit-cup", Name: "Pacers"},
	}
}

func SeedMemberships() []team.Membership {
	joined := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return []team.Membership{
		{TeamID: "team-ironworks", UserID: "user-ana", Username: "ana", JoinedAt: joined, Active: true},
		{TeamID: "team-ironworks", UserID: "user-bo", Username: "bo", JoinedAt: joined, Active: true},
		{TeamID: "team-pacers", UserID: "user-cam", Username: "cam", JoinedAt: joined, Active: true},
		{TeamID: "team-pacers", UserID: "user-dee", Username: "dee", JoinedAt: joined, Active: true},
	}
}
