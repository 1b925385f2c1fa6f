package matchmaking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/events"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// QueueStatus is the enqueue outcome reported to the caller.
type QueueStatus string

const (
	StatusWaiting QueueStatus = "waiting"
	StatusMatched QueueStatus = "matched"
)

// ErrQueueClosed is returned when an operation arrives after Run has
// stopped.
var ErrQueueClosed = errors.New("matchmaking queue closed")

// Conn is one queue connection's notification channel. The waiting side
// receives its MATCH_FOUND (or error notice) through it.
type Conn chan<- events.RoomEvent

// QueueStore is the slice of the store the queue needs when pairing.
type QueueStore interface {
	AddArenaParticipant(ctx context.Context, arg store.AddArenaParticipantParams) error
}

// EnqueueResult is what an enqueue call gets back.
type EnqueueResult struct {
	Status QueueStatus
	Arena  store.Arena
}

type waitingPlayer struct {
	conn   Conn
	userID uuid.UUID
}

type enqueueOp struct {
	conn   Conn
	userID uuid.UUID
	reply  chan enqueueReply
}

type enqueueReply struct {
	result EnqueueResult
	err    error
}

type dequeueOp struct {
	userID uuid.UUID
}

type dequeueConnOp struct {
	conn Conn
}

// Queue pairs two distinct users into a freshly generated arena. All state
// lives in a single waiting slot owned by the Run goroutine; every
// operation is a message to that goroutine, so the check-then-act on the
// slot can never interleave with another operation.
type Queue struct {
	queries   QueueStore
	generator ArenaGenerator
	logger    *slog.Logger

	ops  chan any
	done chan struct{}
}

func NewQueue(queries QueueStore, generator ArenaGenerator, logger *slog.Logger) *Queue {
	return &Queue{
		queries:   queries,
		generator: generator,
		logger:    logger,
		ops:       make(chan any),
		done:      make(chan struct{}),
	}
}

// Run owns the waiting slot and processes queue operations until the
// context is cancelled.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)

	var waiting *waitingPlayer

	for {
		select {
		case <-ctx.Done():
			return
		case op := <-q.ops:
			switch o := op.(type) {
			case enqueueOp:
				waiting = q.handleEnqueue(ctx, waiting, o)
			case dequeueOp:
				if waiting != nil && waiting.userID == o.userID {
					q.logger.Info("user left queue", "user_id", o.userID)
					waiting = nil
				}
			case dequeueConnOp:
				// Guard against stale slots after abrupt disconnects,
				// regardless of which user id the slot carries.
				if waiting != nil && waiting.conn == o.conn {
					q.logger.Info("waiting connection dropped", "user_id", waiting.userID)
					waiting = nil
				}
			}
		}
	}
}

func (q *Queue) handleEnqueue(ctx context.Context, waiting *waitingPlayer, op enqueueOp) *waitingPlayer {
	if waiting == nil {
		q.logger.Info("user waiting for opponent", "user_id", op.userID)
		op.reply <- enqueueReply{result: EnqueueResult{Status: StatusWaiting}}
		return &waitingPlayer{conn: op.conn, userID: op.userID}
	}

	if waiting.userID == op.userID {
		// Duplicate join from the same user. Keep the original slot.
		op.reply <- enqueueReply{result: EnqueueResult{Status: StatusWaiting}}
		return waiting
	}

	q.logger.Info("pairing users", "waiting_user_id", waiting.userID, "user_id", op.userID)

	arena, err := q.pair(ctx, waiting.userID, op.userID)
	if err != nil {
		// No phantom paired state: clear the slot and tell both sides,
		// each is free to re-enqueue.
		q.logger.Error("failed to create match", "error", err)
		notify(waiting.conn, events.RoomEvent{
			EventType: events.QUEUE_ERROR,
			Data:      events.QueueError{Message: "Match creation failed, please rejoin the queue."},
		})
		op.reply <- enqueueReply{err: err}
		return nil
	}

	arenaID := uuid.UUID(arena.ID.Bytes)
	notify(waiting.conn, events.RoomEvent{EventType: events.MATCH_FOUND, Data: events.MatchFound{ArenaID: arenaID}})
	op.reply <- enqueueReply{result: EnqueueResult{Status: StatusMatched, Arena: arena}}

	q.logger.Info("match created", "arena_id", arenaID)
	return nil
}

func (q *Queue) pair(ctx context.Context, firstUserID, secondUserID uuid.UUID) (store.Arena, error) {
	arena, err := q.generator.CreateRandomArena(ctx)
	if err != nil {
		return store.Arena{}, err
	}

	for _, userID := range []uuid.UUID{firstUserID, secondUserID} {
		err = q.queries.AddArenaParticipant(ctx, store.AddArenaParticipantParams{
			ArenaID: arena.ID,
			UserID:  pgtype.UUID{Bytes: userID, Valid: true},
		})
		if err != nil {
			return store.Arena{}, err
		}
	}

	return arena, nil
}

// Enqueue registers a connection in the queue. The second distinct user to
// arrive is paired with the waiting one.
func (q *Queue) Enqueue(ctx context.Context, conn Conn, userID uuid.UUID) (EnqueueResult, error) {
	reply := make(chan enqueueReply, 1)

	select {
	case q.ops <- enqueueOp{conn: conn, userID: userID, reply: reply}:
	case <-q.done:
		return EnqueueResult{}, ErrQueueClosed
	case <-ctx.Done():
		return EnqueueResult{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.result, r.err
	case <-q.done:
		return EnqueueResult{}, ErrQueueClosed
	}
}

// Dequeue clears the waiting slot if and only if it belongs to userID.
func (q *Queue) Dequeue(userID uuid.UUID) {
	select {
	case q.ops <- dequeueOp{userID: userID}:
	case <-q.done:
	}
}

// DequeueConn clears the waiting slot if it belongs to conn. Used for
// disconnect cleanup.
func (q *Queue) DequeueConn(conn Conn) {
	select {
	case q.ops <- dequeueConnOp{conn: conn}:
	case <-q.done:
	}
}

// notify sends without blocking; a full or abandoned connection just
// misses the event.
func notify(conn Conn, event events.RoomEvent) {
	select {
	case conn <- event:
	default:
	}
}
