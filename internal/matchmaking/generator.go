package matchmaking

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// DefaultMaxParticipants is the head-to-head arena capacity.
	DefaultMaxParticipants = 2

	// startWindow bounds how far into the future a generated arena's
	// start time may land.
	startWindow = 30 * time.Minute
)

// GeneratorStore is the slice of the store the generator needs.
type GeneratorStore interface {
	CreateArena(ctx context.Context, arg store.CreateArenaParams) (store.Arena, error)
	CreateArenaTestCase(ctx context.Context, arg store.CreateArenaTestCaseParams) (store.ArenaTestCase, error)
}

// Generator produces system-authored arenas from the fixed template table.
type Generator struct {
	queries GeneratorStore
	logger  *slog.Logger
	now     func() time.Time
	randInt func(n int) int
}

func NewGenerator(queries GeneratorStore, logger *slog.Logger) *Generator {
	return &Generator{
		queries: queries,
		logger:  logger,
		now:     time.Now,
		randInt: rand.Intn,
	}
}

// CreateRandomArena draws a random (category, difficulty) pair, persists an
// upcoming unhosted arena for it and attaches the placeholder test case.
// Persistence failures propagate to the caller.
func (g *Generator) CreateRandomArena(ctx context.Context) (store.Arena, error) {
	category := Categories[g.randInt(len(Categories))]
	difficulty := Difficulties[g.randInt(len(Difficulties))]

	startTime := g.now().Add(time.Duration(g.randInt(int(startWindow))))

	arena, err := g.queries.CreateArena(ctx, store.CreateArenaParams{
		Title:           fmt.Sprintf("%s %s Challenge", difficulty, category),
		Description:     ChallengeDescription(category, difficulty),
		Category:        category,
		Difficulty:      difficulty,
		EntryFee:        EntryFee(difficulty),
		TokenPrize:      TokenPrize(difficulty),
		StartTime:       pgtype.Timestamptz{Time: startTime, Valid: true},
		HostID:          pgtype.UUID{},
		Status:          store.ArenaStatusUpcoming,
		MaxParticipants: DefaultMaxParticipants,
	})
	if err != nil {
		return store.Arena{}, fmt.Errorf("create arena: %w", err)
	}

	_, err = g.queries.CreateArenaTestCase(ctx, store.CreateArenaTestCaseParams{
		ArenaID:        arena.ID,
		Input:          "code",
		ExpectedOutput: "pass",
		Description:    pgtype.Text{String: "Complete the task", Valid: true},
	})
	if err != nil {
		return store.Arena{}, fmt.Errorf("attach placeholder test case: %w", err)
	}

	g.logger.Info("generated arena",
		"arena_id", arena.ID,
		"category", category,
		"difficulty", difficulty,
		"start_time", startTime)

	return arena, nil
}
