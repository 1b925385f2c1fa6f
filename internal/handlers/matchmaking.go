package handlers

import (
	"errors"
	"net/http"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/events"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/matchmaking"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/response"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JoinQueueHandler holds an SSE connection in the matchmaking queue. The
// first user waits, the second distinct user triggers a pairing; both are
// told about the new arena through their streams. Disconnecting clears an
// owned waiting slot.
func (hr *HandlerRepo) JoinQueueHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		hr.serverError(w, r, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	listen := make(chan events.RoomEvent, 5)
	conn := matchmaking.Conn(listen)

	result, err := hr.queue.Enqueue(r.Context(), conn, userID)
	if err != nil {
		hr.logger.Error("failed to enqueue user", "error", err, "user_id", userID)
		hr.errorMessage(w, r, http.StatusServiceUnavailable, "Match creation failed, please try again.", nil)
		return
	}

	defer hr.queue.DequeueConn(conn)

	switch result.Status {
	case matchmaking.StatusMatched:
		event := events.RoomEvent{
			EventType: events.MATCH_FOUND,
			Data:      events.MatchFound{ArenaID: uuid.UUID(result.Arena.ID.Bytes)},
		}
		if err := writeSSEEvent(w, flusher, event); err != nil {
			hr.logger.Error("failed to write SSE event", "error", err, "user_id", userID)
		}
		return

	case matchmaking.StatusWaiting:
		queued := events.RoomEvent{
			EventType: events.QUEUE_JOINED,
			Data:      "Waiting for opponent...",
		}
		if err := writeSSEEvent(w, flusher, queued); err != nil {
			hr.logger.Error("failed to write SSE event", "error", err, "user_id", userID)
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			hr.logger.Info("queue client disconnected", "user_id", userID)
			return
		case event := <-listen:
			if err := writeSSEEvent(w, flusher, event); err != nil {
				hr.logger.Error("failed to write SSE event", "error", err, "user_id", userID)
				return
			}
			// Both outcomes end the stream: the client either joins the
			// arena or re-enqueues after the error.
			if event.EventType == events.MATCH_FOUND || event.EventType == events.QUEUE_ERROR {
				return
			}
		}
	}
}

// LeaveQueueHandler clears the waiting slot if the caller owns it.
func (hr *HandlerRepo) LeaveQueueHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	hr.queue.Dequeue(userID)

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Msg:     "Left the queue.",
	})
}

type QuickMatchResponse struct {
	ArenaID string        `json:"arena_id"`
	Message string        `json:"message"`
	Arena   ArenaResponse `json:"arena"`
}

// QuickMatchHandler joins the caller into an open upcoming arena,
// replenishing the pool first so there is usually one to join.
func (hr *HandlerRepo) QuickMatchHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	if err := hr.pool.EnsureAvailable(r.Context(), matchmaking.DefaultPoolTarget); err != nil {
		hr.logger.Error("failed to replenish arena pool", "error", err)
	}

	arena, err := hr.queries.GetOpenUpcomingArena(r.Context())
	if errors.Is(err, pgx.ErrNoRows) {
		hr.errorMessage(w, r, http.StatusNotFound, "No available matches", nil)
		return
	} else if err != nil {
		hr.serverError(w, r, err)
		return
	}

	err = hr.queries.AddArenaParticipant(r.Context(), store.AddArenaParticipantParams{
		ArenaID: arena.ID,
		UserID:  toPgtypeUUID(userID),
	})
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	participants, err := hr.queries.CountArenaParticipants(r.Context(), arena.ID)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data: QuickMatchResponse{
			ArenaID: uuid.UUID(arena.ID.Bytes).String(),
			Message: "Matched successfully",
			Arena:   arenaResponse(arena, participants),
		},
	})
}
