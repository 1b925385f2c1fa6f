package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/events"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/matchmaking"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// DefaultSweepInterval is how often the lifecycle sweep runs.
	DefaultSweepInterval = 2 * time.Minute

	// matchDuration is how long an active arena may run before the sweep
	// force-completes it.
	matchDuration = 30 * time.Minute
)

// SweepStore is the slice of the store the sweeper needs.
type SweepStore interface {
	ActivateDueArenas(ctx context.Context, now pgtype.Timestamptz) ([]store.Arena, error)
	ExpireOverdueArenas(ctx context.Context, cutoff pgtype.Timestamptz) ([]store.Arena, error)
}

// Broadcaster announces lifecycle transitions to an arena's room across
// all instances.
type Broadcaster interface {
	BroadcastToArena(ctx context.Context, arenaID uuid.UUID, event events.RoomEvent)
}

// Sweeper drives arena lifecycle by wall clock: it activates arenas whose
// start time has passed, completes arenas that ran too long and keeps the
// pool of joinable arenas topped up. Each step is isolated; one failing
// never blocks the others and the ticker survives every error.
type Sweeper struct {
	queries     SweepStore
	pool        *matchmaking.Pool
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func NewSweeper(queries SweepStore, pool *matchmaking.Pool, broadcaster Broadcaster, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		queries:     queries,
		pool:        pool,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

// Start sweeps once immediately, then every interval until the context
// is cancelled. The immediate pass fills the arena pool on a fresh
// instance instead of leaving it empty until the first tick.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("starting arena lifecycle sweep", "interval", interval)

	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping arena lifecycle sweep")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass of the three lifecycle steps.
func (s *Sweeper) Sweep(ctx context.Context) {
	if err := s.activateDue(ctx); err != nil {
		s.logger.Error("failed to activate due arenas", "error", err)
	}

	if err := s.expireOverdue(ctx); err != nil {
		s.logger.Error("failed to expire overdue arenas", "error", err)
	}

	if err := s.pool.EnsureAvailable(ctx, matchmaking.DefaultPoolTarget); err != nil {
		s.logger.Error("failed to replenish arena pool", "error", err)
	}
}

// activateDue flips every upcoming arena whose start time has passed to
// active and announces the activation to its room.
func (s *Sweeper) activateDue(ctx context.Context) error {
	now := s.now()

	activated, err := s.queries.ActivateDueArenas(ctx, pgtype.Timestamptz{Time: now, Valid: true})
	if err != nil {
		return fmt.Errorf("activate due arenas: %w", err)
	}

	for _, arena := range activated {
		arenaID := uuid.UUID(arena.ID.Bytes)
		s.logger.Info("activated arena", "arena_id", arenaID, "title", arena.Title)

		s.broadcaster.BroadcastToArena(ctx, arenaID, events.RoomEvent{
			EventType: events.ARENA_ACTIVATED,
			Data: events.ArenaActivated{
				ArenaID:   arenaID,
				StartTime: arena.StartTime.Time,
			},
		})
	}

	return nil
}

// expireOverdue force-completes arenas that have been active longer than
// the match duration. Nobody won; no winner fields are touched.
func (s *Sweeper) expireOverdue(ctx context.Context) error {
	cutoff := s.now().Add(-matchDuration)

	expired, err := s.queries.ExpireOverdueArenas(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
	if err != nil {
		return fmt.Errorf("expire overdue arenas: %w", err)
	}

	for _, arena := range expired {
		s.logger.Info("completed overdue arena", "arena_id", uuid.UUID(arena.ID.Bytes), "title", arena.Title)
	}

	return nil
}
