package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/events"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/request"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// JoinRoomHandler holds an SSE connection into an arena's room. Joining
// feeds a player-joined event into the room, which may start the match;
// disconnecting feeds a player-left event.
func (hr *HandlerRepo) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := GetUserClaims(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}
	playerID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		hr.serverError(w, r, errors.New("streaming unsupported"))
		return
	}

	// Set http headers required for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	// Lazy-loads the room when another instance created the arena.
	roomHub := hr.arenaHub.GetOrCreateRoomHub(r.Context(), arenaID)
	if roomHub == nil {
		hr.notFound(w, r)
		return
	}

	listen := make(chan events.RoomEvent, 10)
	roomHub.AddListener(playerID, listen)

	defer hr.logger.Info("SSE connection closed", "player_id", playerID, "arena_id", arenaID)
	defer func() {
		roomHub.RemoveListener(playerID)
		go func() {
			roomHub.Events <- events.PlayerLeft{PlayerID: playerID, ArenaID: arenaID}
		}()
	}()

	hr.logger.Info("SSE connection established", "player_id", playerID, "arena_id", arenaID)

	roomHub.Events <- events.PlayerJoined{
		PlayerID: playerID,
		Username: claims.Username,
		ArenaID:  arenaID,
	}

	for {
		select {
		case <-r.Context().Done():
			hr.logger.Info("SSE client disconnected", "player_id", playerID, "arena_id", arenaID)
			return
		case event := <-listen:
			if err := writeSSEEvent(w, flusher, event); err != nil {
				hr.logger.Error("failed to write SSE event", "error", err, "player_id", playerID)
				return
			}
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event events.RoomEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if event.EventType != "" {
		fmt.Fprintf(w, "event: %s\n", event.EventType)
	}
	fmt.Fprintf(w, "data: %s\n\n", string(data))
	flusher.Flush()
	return nil
}

// feedRoomEvent drops a gameplay event into an arena's room channel.
func (hr *HandlerRepo) feedRoomEvent(w http.ResponseWriter, r *http.Request, arenaID uuid.UUID, event any) {
	roomHub := hr.arenaHub.GetOrCreateRoomHub(r.Context(), arenaID)
	if roomHub == nil {
		hr.notFound(w, r)
		return
	}

	// Use a select with a default case to avoid blocking if the channel
	// is full
	select {
	case roomHub.Events <- event:
	default:
		hr.logger.Warn("room events channel is full, event dropped", "arena_id", arenaID)
		hr.errorMessage(w, r, http.StatusServiceUnavailable, "Server is busy, please try again later.", nil)
		return
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusAccepted,
		Success: true,
	})
}

type CodeUpdateRequest struct {
	Code string `json:"code"`
}

// RoomCodeHandler relays a live code snapshot to the opponent.
func (hr *HandlerRepo) RoomCodeHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	var req CodeUpdateRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		hr.badRequest(w, r, err)
		return
	}

	hr.feedRoomEvent(w, r, arenaID, events.CodeUpdate{
		PlayerID: playerID,
		ArenaID:  arenaID,
		Code:     req.Code,
	})
}

type ChatMessageRequest struct {
	Message string `json:"message"`
}

// RoomChatHandler broadcasts a chat message to the whole room, sender
// included.
func (hr *HandlerRepo) RoomChatHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := GetUserClaims(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}
	playerID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	var req ChatMessageRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		hr.badRequest(w, r, err)
		return
	}
	if req.Message == "" {
		hr.badRequest(w, r, errors.New("message cannot be empty"))
		return
	}

	hr.feedRoomEvent(w, r, arenaID, events.ChatMessage{
		PlayerID:  playerID,
		Username:  claims.Username,
		ArenaID:   arenaID,
		Message:   req.Message,
		Timestamp: time.Now(),
	})
}

type TypingRequest struct {
	IsTyping bool `json:"is_typing"`
}

// RoomTypingHandler relays a typing indicator to the opponent.
func (hr *HandlerRepo) RoomTypingHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := GetUserClaims(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}
	playerID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	var req TypingRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		hr.badRequest(w, r, err)
		return
	}

	hr.feedRoomEvent(w, r, arenaID, events.Typing{
		PlayerID: playerID,
		Username: claims.Username,
		ArenaID:  arenaID,
		IsTyping: req.IsTyping,
	})
}
