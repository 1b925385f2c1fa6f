package matchmaking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
)

// DefaultPoolTarget is how many upcoming arenas the pool keeps joinable.
const DefaultPoolTarget = 10

// PoolStore is the slice of the store the pool maintainer needs.
type PoolStore interface {
	CountUpcomingArenas(ctx context.Context) (int64, error)
}

// ArenaGenerator produces one new system-authored arena.
type ArenaGenerator interface {
	CreateRandomArena(ctx context.Context) (store.Arena, error)
}

// Pool tops the set of upcoming arenas back up to a target count. It only
// ever adds arenas; concurrent callers can briefly overshoot the target,
// which is harmless and bounded by the number of overlapping callers.
type Pool struct {
	queries   PoolStore
	generator ArenaGenerator
	logger    *slog.Logger
}

func NewPool(queries PoolStore, generator ArenaGenerator, logger *slog.Logger) *Pool {
	return &Pool{
		queries:   queries,
		generator: generator,
		logger:    logger,
	}
}

// EnsureAvailable generates arenas one at a time until the upcoming count
// reaches target. Safe to call repeatedly.
func (p *Pool) EnsureAvailable(ctx context.Context, target int) error {
	count, err := p.queries.CountUpcomingArenas(ctx)
	if err != nil {
		return fmt.Errorf("count upcoming arenas: %w", err)
	}

	for i := count; i < int64(target); i++ {
		if _, err := p.generator.CreateRandomArena(ctx); err != nil {
			return fmt.Errorf("replenish arena pool: %w", err)
		}
	}

	if count < int64(target) {
		p.logger.Info("replenished arena pool", "had", count, "target", target)
	}

	return nil
}
