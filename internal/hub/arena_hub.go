package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/client/rabbitmq"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/events"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultQueryTimeout = 10 * time.Second

// event-based
// each arena gets a room hub, acting as a broadcaster for room-related
// events to all connected clients
// Events is a single queue that receives events from multiple sources,
// processes them, then relays to all listeners
// listeners are the clients connected to the room, keyed by player ID

// Store is the slice of the store the hubs need.
type Store interface {
	GetArenaByID(ctx context.Context, id pgtype.UUID) (store.Arena, error)
	ActivateArena(ctx context.Context, arg store.ActivateArenaParams) (store.Arena, error)
	ClaimArenaWinner(ctx context.Context, arg store.ClaimArenaWinnerParams) (store.Arena, error)
	CreditUserTokens(ctx context.Context, arg store.CreditUserTokensParams) (store.User, error)
	CreateUserMatch(ctx context.Context, arg store.CreateUserMatchParams) (store.UserMatch, error)
	SetArenaWinnerInfo(ctx context.Context, arg store.SetArenaWinnerInfoParams) error
}

// Broker fans room events out to every running instance.
type Broker interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
	Consume() (<-chan amqp.Delivery, error)
}

// wireEvent is the envelope published to the broker. Target restricts
// delivery to a single player, Exclude drops one player from a broadcast.
type wireEvent struct {
	events.RoomEvent
	TargetPlayerID  *uuid.UUID `json:"target_player_id,omitempty"`
	ExcludePlayerID *uuid.UUID `json:"exclude_player_id,omitempty"`
}

// ArenaHub holds the RoomHub of every arena with local listeners.
type ArenaHub struct {
	logger  *slog.Logger
	queries Store
	broker  Broker

	Rooms map[uuid.UUID]*RoomHub
	Mu    sync.RWMutex
}

// RoomHub broadcasts one arena's events to its connected players. All
// state transitions it performs go through conditional updates, so two
// rooms on different instances can race without corrupting the arena.
type RoomHub struct {
	ArenaID uuid.UUID
	Events  chan any

	Listeners map[uuid.UUID]chan<- events.RoomEvent
	Mu        sync.RWMutex

	logger  *slog.Logger
	queries Store
	broker  Broker

	lastActivity time.Time
	activityMu   sync.RWMutex
}

func NewArenaHub(queries Store, broker Broker, logger *slog.Logger) *ArenaHub {
	h := &ArenaHub{
		logger:  logger,
		queries: queries,
		broker:  broker,
		Rooms:   make(map[uuid.UUID]*RoomHub),
	}

	go h.listenForAMQPEvents()

	return h
}

func newRoomHub(arenaID uuid.UUID, queries Store, broker Broker, logger *slog.Logger) *RoomHub {
	return &RoomHub{
		ArenaID:      arenaID,
		Events:       make(chan any, 10),
		Listeners:    make(map[uuid.UUID]chan<- events.RoomEvent),
		logger:       logger,
		queries:      queries,
		broker:       broker,
		lastActivity: time.Now(),
	}
}

// listenForAMQPEvents is the central goroutine that receives all messages
// from RabbitMQ and dispatches them to the correct local listeners.
func (h *ArenaHub) listenForAMQPEvents() {
	msgs, err := h.broker.Consume()
	if err != nil {
		h.logger.Error("failed to start consuming from RabbitMQ", "error", err)
		return
	}

	h.logger.Info("listening for messages from RabbitMQ fanout exchange")

	for msg := range msgs {
		var event wireEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			h.logger.Error("failed to unmarshal AMQP message", "error", err)
			continue
		}

		parts := strings.Split(msg.RoutingKey, ".")
		if len(parts) != 2 || parts[0] != "room" {
			continue
		}
		arenaID, err := uuid.Parse(parts[1])
		if err != nil {
			h.logger.Error("failed to parse arena ID from routing key", "error", err, "routing_key", msg.RoutingKey)
			continue
		}

		// Lazy-load so events published by other instances still reach
		// listeners that connected here.
		room := h.GetOrCreateRoomHub(context.Background(), arenaID)
		if room == nil {
			h.logger.Warn("received event for unknown arena, skipping",
				"arena_id", arenaID,
				"event_type", event.EventType)
			continue
		}

		switch {
		case event.TargetPlayerID != nil:
			room.dispatchEventToPlayer(event.RoomEvent, *event.TargetPlayerID)
		case event.ExcludePlayerID != nil:
			room.dispatchEventExcept(event.RoomEvent, *event.ExcludePlayerID)
		default:
			room.dispatchEvent(event.RoomEvent)
		}
	}
}

// GetRoomById returns a RoomHub if it exists in memory, nil otherwise.
func (h *ArenaHub) GetRoomById(arenaID uuid.UUID) *RoomHub {
	h.Mu.RLock()
	defer h.Mu.RUnlock()
	return h.Rooms[arenaID]
}

// GetOrCreateRoomHub returns the in-memory RoomHub for an arena, creating
// and starting one if the arena exists in the database. Returns nil when
// the arena does not exist.
func (h *ArenaHub) GetOrCreateRoomHub(ctx context.Context, arenaID uuid.UUID) *RoomHub {
	h.Mu.RLock()
	room, exists := h.Rooms[arenaID]
	h.Mu.RUnlock()

	if exists {
		return room
	}

	if _, err := h.queries.GetArenaByID(ctx, toPgtypeUUID(arenaID)); err != nil {
		h.logger.Warn("arena not found", "arena_id", arenaID, "error", err)
		return nil
	}

	h.Mu.Lock()
	defer h.Mu.Unlock()

	// Another goroutine might have created it while we were waiting for
	// the lock.
	if existing, ok := h.Rooms[arenaID]; ok {
		return existing
	}

	newRoom := newRoomHub(arenaID, h.queries, h.broker, h.logger)
	h.Rooms[arenaID] = newRoom
	go newRoom.Start()

	h.logger.Info("created room hub", "arena_id", arenaID)

	return newRoom
}

// BroadcastToArena relays an event to every connected member of an arena's
// room, on this instance and every other one. Used by the sweep for
// activation announcements.
func (h *ArenaHub) BroadcastToArena(ctx context.Context, arenaID uuid.UUID, event events.RoomEvent) {
	publishWireEvent(ctx, h.broker, h.logger, arenaID, wireEvent{RoomEvent: event})
}

// updateActivity marks the room as recently active.
func (r *RoomHub) updateActivity() {
	r.activityMu.Lock()
	r.lastActivity = time.Now()
	r.activityMu.Unlock()
}

func (r *RoomHub) getLastActivity() time.Time {
	r.activityMu.RLock()
	defer r.activityMu.RUnlock()
	return r.lastActivity
}

// isInactive returns true if the room has no listeners and hasn't
// processed an event for the given duration.
func (r *RoomHub) isInactive(inactivityThreshold time.Duration) bool {
	r.Mu.RLock()
	hasListeners := len(r.Listeners) > 0
	r.Mu.RUnlock()

	if hasListeners {
		return false
	}

	return time.Since(r.getLastActivity()) > inactivityThreshold
}

// StartInactiveRoomCleanup periodically removes inactive rooms from memory
// to prevent leaks. A room is inactive once it has no listeners and hasn't
// processed events for the threshold duration.
func (h *ArenaHub) StartInactiveRoomCleanup(ctx context.Context, checkInterval, inactivityThreshold time.Duration) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	h.logger.Info("starting inactive room cleanup routine",
		"check_interval", checkInterval,
		"inactivity_threshold", inactivityThreshold)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("stopping inactive room cleanup routine")
			return
		case <-ticker.C:
			h.cleanupInactiveRooms(inactivityThreshold)
		}
	}
}

func (h *ArenaHub) cleanupInactiveRooms(inactivityThreshold time.Duration) {
	h.Mu.Lock()
	defer h.Mu.Unlock()

	var removed []uuid.UUID
	for arenaID, room := range h.Rooms {
		if room.isInactive(inactivityThreshold) {
			removed = append(removed, arenaID)
		}
	}

	for _, arenaID := range removed {
		// Closing the events channel stops the room's goroutine.
		close(h.Rooms[arenaID].Events)
		delete(h.Rooms, arenaID)
	}

	if len(removed) > 0 {
		h.logger.Info("cleaned up inactive rooms",
			"count", len(removed),
			"remaining_rooms", len(h.Rooms))
	}
}

// Start listens for room events and reacts to them one at a time.
func (r *RoomHub) Start() {
	for event := range r.Events {
		r.updateActivity()

		switch e := event.(type) {
		case events.PlayerJoined:
			if err := r.processPlayerJoined(e); err != nil {
				r.logger.Error("failed to process player joined event", "error", err)
			}
		case events.PlayerLeft:
			r.processPlayerLeft(e)
		case events.WinnerClaim:
			if err := r.processWinnerClaim(e); err != nil {
				r.logger.Error("failed to process winner claim event", "error", err)
			}
		case events.CodeUpdate:
			r.relay(events.CODE_UPDATE, e, &e.PlayerID)
		case events.ChatMessage:
			r.relay(events.CHAT_MESSAGE, e, nil)
		case events.Typing:
			r.relay(events.USER_TYPING, e, &e.PlayerID)
		}
	}
}

// processPlayerJoined announces the newcomer to the rest of the room and
// applies the fill rule: the moment the room holds a full house for an
// upcoming arena, the arena goes active and the match starts for everyone.
// Joining an already active arena starts the match for the newcomer only.
func (r *RoomHub) processPlayerJoined(event events.PlayerJoined) error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultQueryTimeout)
	defer cancel()

	arena, err := r.queries.GetArenaByID(ctx, toPgtypeUUID(r.ArenaID))
	if err != nil {
		return fmt.Errorf("get arena: %w", err)
	}

	r.publish(ctx, wireEvent{
		RoomEvent:       events.RoomEvent{EventType: events.USER_JOINED, Data: event},
		ExcludePlayerID: &event.PlayerID,
	})

	switch arena.Status {
	case store.ArenaStatusUpcoming:
		if r.listenerCount() < int(arena.MaxParticipants) {
			return nil
		}

		startTime := time.Now()
		_, err := r.queries.ActivateArena(ctx, store.ActivateArenaParams{
			ID:        toPgtypeUUID(r.ArenaID),
			StartTime: pgtype.Timestamptz{Time: startTime, Valid: true},
		})
		if errors.Is(err, pgx.ErrNoRows) {
			// Another instance activated it first.
			return nil
		}
		if err != nil {
			return fmt.Errorf("activate arena: %w", err)
		}

		r.logger.Info("match started", "arena_id", r.ArenaID)

		r.publish(ctx, wireEvent{
			RoomEvent: events.RoomEvent{
				EventType: events.MATCH_START,
				Data: events.MatchStart{
					Message:   "Both players joined! Match starting...",
					StartTime: startTime,
				},
			},
		})

	case store.ArenaStatusActive:
		r.publish(ctx, wireEvent{
			RoomEvent: events.RoomEvent{
				EventType: events.MATCH_START,
				Data: events.MatchStart{
					Message:   "Joining active match!",
					StartTime: arena.StartTime.Time,
				},
			},
			TargetPlayerID: &event.PlayerID,
		})
	}

	return nil
}

// processPlayerLeft only logs. Leaving a room never cancels the arena; the
// sweep eventually completes an abandoned match.
func (r *RoomHub) processPlayerLeft(event events.PlayerLeft) {
	r.logger.Info("player left room", "arena_id", r.ArenaID, "player_id", event.PlayerID)
}

// processWinnerClaim settles the match for a passing submission. The
// conditional update is the only arbiter: whoever's claim lands first
// wins, every later claim is a silent no-op.
func (r *RoomHub) processWinnerClaim(event events.WinnerClaim) error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultQueryTimeout)
	defer cancel()

	arena, err := r.queries.ClaimArenaWinner(ctx, store.ClaimArenaWinnerParams{
		ID:             toPgtypeUUID(event.ArenaID),
		WinnerID:       toPgtypeUUID(event.PlayerID),
		WinnerSolution: pgtype.Text{String: event.Solution, Valid: true},
	})
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Info("arena already has a winner", "arena_id", event.ArenaID, "player_id", event.PlayerID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("claim winner: %w", err)
	}

	r.logger.Info("winner claimed", "arena_id", event.ArenaID, "winner_id", event.PlayerID)

	user, err := r.queries.CreditUserTokens(ctx, store.CreditUserTokensParams{
		ID:     toPgtypeUUID(event.PlayerID),
		Amount: arena.TokenPrize,
	})
	if err != nil {
		return fmt.Errorf("credit winner tokens: %w", err)
	}

	_, err = r.queries.CreateUserMatch(ctx, store.CreateUserMatchParams{
		UserID:  toPgtypeUUID(event.PlayerID),
		ArenaID: toPgtypeUUID(event.ArenaID),
		Score:   100,
		Rank:    1,
		Result:  store.MatchResultWon,
	})
	if err != nil {
		r.logger.Error("failed to record winner match history", "error", err)
	}

	// Cache the winner's display data on the arena so reads after the
	// match don't need a join.
	err = r.queries.SetArenaWinnerInfo(ctx, store.SetArenaWinnerInfoParams{
		ID:           toPgtypeUUID(event.ArenaID),
		WinnerName:   pgtype.Text{String: user.Username, Valid: true},
		WinnerTokens: pgtype.Int4{Int32: user.Tokens, Valid: true},
	})
	if err != nil {
		r.logger.Error("failed to store winner info", "error", err)
	}

	r.publish(ctx, wireEvent{
		RoomEvent: events.RoomEvent{
			EventType: events.YOU_WON,
			Data:      events.WinNotice{TokensAwarded: arena.TokenPrize},
		},
		TargetPlayerID: &event.PlayerID,
	})
	r.publish(ctx, wireEvent{
		RoomEvent: events.RoomEvent{
			EventType: events.YOU_LOST,
			Data:      events.LossNotice{Message: "Opponent won!"},
		},
		ExcludePlayerID: &event.PlayerID,
	})
	r.publish(ctx, wireEvent{
		RoomEvent: events.RoomEvent{
			EventType: events.MATCH_ENDED,
			Data:      events.MatchEnded{WinnerID: event.PlayerID},
		},
	})

	return nil
}

// relay forwards a gameplay event to the room, optionally excluding its
// sender.
func (r *RoomHub) relay(eventType events.EventType, data any, excludePlayerID *uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultQueryTimeout)
	defer cancel()

	r.publish(ctx, wireEvent{
		RoomEvent:       events.RoomEvent{EventType: eventType, Data: data},
		ExcludePlayerID: excludePlayerID,
	})
}

// publish sends a wire event through the broker; it comes back through
// listenForAMQPEvents on every instance, including this one, and only then
// reaches listeners.
func (r *RoomHub) publish(ctx context.Context, event wireEvent) {
	publishWireEvent(ctx, r.broker, r.logger, r.ArenaID, event)
}

func publishWireEvent(ctx context.Context, broker Broker, logger *slog.Logger, arenaID uuid.UUID, event wireEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event for publishing", "error", err, "arena_id", arenaID)
		return
	}

	routingKey := fmt.Sprintf("room.%s", arenaID)
	if err := broker.Publish(ctx, rabbitmq.RoomEventsExchange, routingKey, payload); err != nil {
		logger.Error("failed to publish event to RabbitMQ", "error", err, "routing_key", routingKey)
	}
}

func (r *RoomHub) listenerCount() int {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	return len(r.Listeners)
}

// AddListener registers a player's channel with the room.
func (r *RoomHub) AddListener(playerID uuid.UUID, ch chan<- events.RoomEvent) {
	r.Mu.Lock()
	r.Listeners[playerID] = ch
	r.Mu.Unlock()
	r.updateActivity()
}

// RemoveListener drops a player's channel. Safe to call for players that
// never registered.
func (r *RoomHub) RemoveListener(playerID uuid.UUID) {
	r.Mu.Lock()
	delete(r.Listeners, playerID)
	r.Mu.Unlock()
	r.updateActivity()
}

func (r *RoomHub) dispatchEvent(e events.RoomEvent) {
	r.dispatchEventExcept(e, uuid.Nil)
}

func (r *RoomHub) dispatchEventExcept(e events.RoomEvent, excludePlayerID uuid.UUID) {
	// Safely copy listeners to avoid race conditions
	r.Mu.RLock()
	listeners := make(map[uuid.UUID]chan<- events.RoomEvent, len(r.Listeners))
	for pid, listener := range r.Listeners {
		if pid == excludePlayerID {
			continue
		}
		listeners[pid] = listener
	}
	r.Mu.RUnlock()

	for playerID, listener := range listeners {
		select {
		case listener <- e:
		default:
			// Channel is full or closed, log but don't block
			r.logger.Warn("failed to send event to listener", "player_id", playerID, "event_type", e.EventType)
		}
	}
}

func (r *RoomHub) dispatchEventToPlayer(e events.RoomEvent, playerID uuid.UUID) {
	r.Mu.RLock()
	listener, ok := r.Listeners[playerID]
	r.Mu.RUnlock()

	if !ok {
		// The player may be connected to a different instance.
		return
	}

	select {
	case listener <- e:
	default:
		r.logger.Warn("failed to send event to listener", "player_id", playerID, "event_type", e.EventType)
	}
}

func toPgtypeUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{
		Bytes: id,
		Valid: true,
	}
}
