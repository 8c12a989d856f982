package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/fitclash/league-engine/internal/domain/summary"
	qb "github.com/fitclash/league-engine/internal/platform/querybuilder"
)

type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) Create(ctx context.Context, item summary.GameSummary) error {
	detail, err := sonic.MarshalString(summaryDetailPayload{
		MVP:        toPlayerLinePayload(item.MVP),
		LVP:        toPlayerLinePayload(item.LVP),
		Home:       toSideStatsPayload(item.Home),
		Away:       toSideStatsPayload(item.Away),
		AwayLowest: toPlayerLinePayload(item.AwayLowest),
	})
	if err != nil {
		return fmt.Errorf("encode summary detail: %w", err)
	}

	query, args, err := qb.InsertModel("game_summaries", summaryInsertModel{
		PublicID:  item.ID,
		GameID:    item.GameID,
		HomeScore: item.HomeScore,
		AwayScore: item.AwayScore,
		Detail:    detail,
		CreatedAt: item.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert summary query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "game_summaries_game_public_id_key") {
			return fmt.Errorf("summary for game %s already exists", item.GameID)
		}
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func (r *SummaryRepository) GetByGame(ctx context.Context, gameID string) (summary.GameSummary, bool, error) {
	query, args, err := qb.Select("*").From("game_summaries").
		Where(qb.Eq("game_public_id", gameID)).
		ToSQL()
	if err != nil {
		return summary.GameSummary{}, false, fmt.Errorf("build get summary query: %w", err)
	}

	var row summaryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return summary.GameSummary{}, false, nil
		}
		return summary.GameSummary{}, false, fmt.Errorf("get summary: %w", err)
	}

	var detail summaryDetailPayload
	if err := sonic.UnmarshalString(row.Detail, &detail); err != nil {
		return summary.GameSummary{}, false, fmt.Errorf("decode summary detail: %w", err)
	}

	return summary.GameSummary{
		ID:         row.PublicID,
		GameID:     row.GameID,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
		MVP:        fromPlayerLinePayload(detail.MVP),
		LVP:        fromPlayerLinePayload(detail.LVP),
		Home:       fromSideStatsPayload(detail.Home),
		Away:       fromSideStatsPayload(detail.Away),
		AwayLowest: fromPlayerLinePayload(detail.AwayLowest),
		CreatedAt:  row.CreatedAt,
	}, true, nil
}

func toPlayerLinePayload(line summary.PlayerLine) playerLinePayload {
	return playerLinePayload{UserID: line.UserID, Username: line.Username, Points: line.Points}
}

func fromPlayerLinePayload(payload playerLinePayload) summary.PlayerLine {
	return summary.PlayerLine{UserID: payload.UserID, Username: payload.Username, Points: payload.Points}
}

func toSideStatsPayload(stats summary.SideStats) sideStatsPayload {
	return sideStatsPayload{
		AveragePoints: stats.AveragePoints,
		Workouts:      stats.Workouts,
		TopScorer:     toPlayerLinePayload(stats.TopScorer),
	}
}

func fromSideStatsPayload(payload sideStatsPayload) summary.SideStats {
	return summary.SideStats{
		AveragePoints: payload.AveragePoints,
		Workouts:      payload.Workouts,
		TopScorer:     fromPlayerLinePayload(payload.TopScorer),
	}
}
