package notification

import (
	"context"
	"time"
)

type EventType string

const (
	EventGameStarted        EventType = "game_started"
	EventGameFinished       EventType = "game_finished"
	EventLiveScoreUpdate    EventType = "live_score_update"
	EventGameSummaryCreated EventType = "game_summary_created"
)

// LastScorer mirrors the game's last accepted contributor for live
// score payloads.
type LastScorer struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Side     string    `json:"side"`
	At       time.Time `json:"at"`
}

// Event is one domain notification handed to the external gateway.
// Delivery is best-effort; publish failures never roll back state.
type Event struct {
	Type        EventType   `json:"type"`
	GameID      string      `json:"game_id"`
	HomeScore   int         `json:"home_score"`
	AwayScore   int         `json:"away_score"`
	LastScorer  *LastScorer `json:"last_scorer,omitempty"`
	SummaryID   string      `json:"summary_id,omitempty"`
	MVPUsername string      `json:"mvp_username,omitempty"`
	LVPUsername string      `json:"lvp_username,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

// Publisher hands events to the external real-time gateway. The core
// never depends on delivery succeeding.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}
