package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	MATCH_FOUND     EventType = "MATCH_FOUND"
	QUEUE_JOINED    EventType = "QUEUE_JOINED"
	QUEUE_ERROR     EventType = "QUEUE_ERROR"
	MATCH_START     EventType = "MATCH_START"
	ARENA_ACTIVATED EventType = "ARENA_ACTIVATED"
	MATCH_ENDED     EventType = "MATCH_ENDED"
	YOU_WON         EventType = "YOU_WON"
	YOU_LOST        EventType = "YOU_LOST"
	USER_JOINED     EventType = "USER_JOINED"
	CODE_UPDATE     EventType = "CODE_UPDATE"
	CHAT_MESSAGE    EventType = "CHAT_MESSAGE"
	USER_TYPING     EventType = "USER_TYPING"
)

// RoomEvent is the wire envelope relayed to every listener of a room.
type RoomEvent struct {
	EventType EventType `json:"event_type"`
	Data      any       `json:"data"`
}

// PlayerJoined is raised when a connection joins an arena room. It drives
// the room-fill activation rule.
type PlayerJoined struct {
	PlayerID uuid.UUID `json:"player_id"`
	Username string    `json:"username"`
	ArenaID  uuid.UUID `json:"arena_id"`
}

// PlayerLeft is raised when a room connection closes. Leaving a room never
// cancels the arena.
type PlayerLeft struct {
	PlayerID uuid.UUID `json:"player_id"`
	ArenaID  uuid.UUID `json:"arena_id"`
}

// WinnerClaim is raised after the evaluation collaborator has reported a
// passing submission. The room processes it through the conditional update
// so at most one claim per arena ever lands.
type WinnerClaim struct {
	PlayerID      uuid.UUID `json:"player_id"`
	ArenaID       uuid.UUID `json:"arena_id"`
	Solution      string    `json:"solution"`
	SubmittedTime time.Time `json:"submitted_time"`
}

// CodeUpdate is relayed to the room excluding its sender.
type CodeUpdate struct {
	PlayerID uuid.UUID `json:"player_id"`
	ArenaID  uuid.UUID `json:"arena_id"`
	Code     string    `json:"code"`
}

// ChatMessage is relayed to the whole room including its sender.
type ChatMessage struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Username  string    `json:"username"`
	ArenaID   uuid.UUID `json:"arena_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Typing is relayed to the room excluding its sender.
type Typing struct {
	PlayerID uuid.UUID `json:"player_id"`
	Username string    `json:"username"`
	ArenaID  uuid.UUID `json:"arena_id"`
	IsTyping bool      `json:"is_typing"`
}

// MatchFound is delivered to both matchmaking-queue connections when a
// pairing succeeds.
type MatchFound struct {
	ArenaID uuid.UUID `json:"arena_id"`
}

// QueueError tells a queued connection its pairing failed. The stream
// closes after it; the client is expected to re-enqueue.
type QueueError struct {
	Message string `json:"message"`
}

// MatchStart carries the start announcement for a room.
type MatchStart struct {
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time"`
}

// ArenaActivated is broadcast by the sweep when a time-reached arena goes
// active.
type ArenaActivated struct {
	ArenaID   uuid.UUID `json:"arena_id"`
	StartTime time.Time `json:"start_time"`
}

// MatchEnded carries the winner identity to the whole room.
type MatchEnded struct {
	WinnerID uuid.UUID `json:"winner_id"`
}

// WinNotice is delivered to the winner only.
type WinNotice struct {
	TokensAwarded int32 `json:"tokens_awarded"`
}

// LossNotice is delivered to every room member except the winner.
type LossNotice struct {
	Message string `json:"message"`
}
