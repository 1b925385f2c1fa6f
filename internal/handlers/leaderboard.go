package handlers

import (
	"net/http"

	"github.com/CANCELTHIS/Code-Clash-Back/pkg/response"
	"github.com/google/uuid"
)

const leaderboardSize = 10

type LeaderboardEntry struct {
	Rank         int32  `json:"rank"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Tokens       int32  `json:"tokens"`
	Wins         int64  `json:"wins"`
	TotalMatches int64  `json:"total_matches"`
}

// GetLeaderboardHandler returns the top users by token balance.
func (hr *HandlerRepo) GetLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := hr.queries.GetTokenLeaderboard(r.Context(), leaderboardSize)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:         int32(i + 1),
			UserID:       uuid.UUID(row.ID.Bytes).String(),
			Username:     row.Username,
			Tokens:       row.Tokens,
			Wins:         row.Wins,
			TotalMatches: row.TotalMatches,
		})
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data:    entries,
	})
}
