package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserProfileResponse struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	Badges   []string       `json:"badges"`
	Tokens   int32          `json:"tokens"`
	Matches  []MatchHistory `json:"matches"`
}

type MatchHistory struct {
	ArenaID string    `json:"arena_id"`
	Score   int32     `json:"score"`
	Rank    int32     `json:"rank"`
	Result  string    `json:"result"`
	Date    time.Time `json:"date"`
}

// GetUserHandler returns a user's public profile with match history.
func (hr *HandlerRepo) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid user ID format"))
		return
	}

	user, err := hr.queries.GetUserByID(r.Context(), toPgtypeUUID(userID))
	if errors.Is(err, pgx.ErrNoRows) {
		hr.notFound(w, r)
		return
	} else if err != nil {
		hr.serverError(w, r, err)
		return
	}

	matches, err := hr.queries.ListUserMatches(r.Context(), user.ID)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	history := make([]MatchHistory, 0, len(matches))
	for _, m := range matches {
		history = append(history, MatchHistory{
			ArenaID: uuid.UUID(m.ArenaID.Bytes).String(),
			Score:   m.Score,
			Rank:    m.Rank,
			Result:  string(m.Result),
			Date:    m.CreatedAt.Time,
		})
	}

	badges := user.Badges
	if badges == nil {
		badges = []string{}
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data: UserProfileResponse{
			UserID:   uuid.UUID(user.ID.Bytes).String(),
			Username: user.Username,
			Badges:   badges,
			Tokens:   user.Tokens,
			Matches:  history,
		},
	})
}
