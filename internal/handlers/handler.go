package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/client/gemini"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/client/rabbitmq"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/hub"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/matchmaking"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/env"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/jwt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the slice of the store the handlers need. *store.Queries
// satisfies it; tests swap in a mock.
type Querier interface {
	CreateArena(ctx context.Context, arg store.CreateArenaParams) (store.Arena, error)
	GetArenaByID(ctx context.Context, id pgtype.UUID) (store.Arena, error)
	ListArenas(ctx context.Context, status store.NullArenaStatus) ([]store.ListArenasRow, error)
	AddArenaParticipant(ctx context.Context, arg store.AddArenaParticipantParams) error
	GetArenaParticipant(ctx context.Context, arg store.GetArenaParticipantParams) (store.ArenaParticipant, error)
	CountArenaParticipants(ctx context.Context, arenaID pgtype.UUID) (int64, error)
	GetArenaTestCases(ctx context.Context, arenaID pgtype.UUID) ([]store.ArenaTestCase, error)
	CreateArenaTestCase(ctx context.Context, arg store.CreateArenaTestCaseParams) (store.ArenaTestCase, error)
	DeleteArenaTestCases(ctx context.Context, arenaID pgtype.UUID) error
	GetOpenUpcomingArena(ctx context.Context) (store.Arena, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (store.User, error)
	ListUserMatches(ctx context.Context, userID pgtype.UUID) ([]store.UserMatch, error)
	GetTokenLeaderboard(ctx context.Context, limit int32) ([]store.GetTokenLeaderboardRow, error)
	CreditUserTokens(ctx context.Context, arg store.CreditUserTokensParams) (store.User, error)
	AddUserBadge(ctx context.Context, arg store.AddUserBadgeParams) error
	CreateUserMatch(ctx context.Context, arg store.CreateUserMatchParams) (store.UserMatch, error)
}

// HandlerRepo holds all the dependencies required by the handlers.
type HandlerRepo struct {
	logger       *slog.Logger
	queries      Querier
	jwtParser    *jwt.JWTParser
	arenaHub     *hub.ArenaHub
	queue        *matchmaking.Queue
	pool         *matchmaking.Pool
	geminiClient *gemini.Client
	rabbitClient *rabbitmq.RabbitMQClient
}

// NewHandlerRepo wires up the handler dependencies. It also starts the
// matchmaking queue goroutine and the background cleanup for inactive
// rooms.
func NewHandlerRepo(ctx context.Context, logger *slog.Logger, queries *store.Queries, rabbitClient *rabbitmq.RabbitMQClient, geminiClient *gemini.Client) *HandlerRepo {
	secKey := env.GetString("ARENA_JWT_SECRET", "")
	if secKey == "" {
		panic("ARENA_JWT_SECRET env not found")
	}
	issuer := env.GetString("ARENA_JWT_ISSUER", "")
	audience := env.GetString("ARENA_JWT_AUDIENCE", "")

	arenaHub := hub.NewArenaHub(queries, rabbitClient, logger)

	// Check every 5 minutes, remove rooms inactive for more than 30 minutes
	go arenaHub.StartInactiveRoomCleanup(ctx, 5*time.Minute, 30*time.Minute)

	generator := matchmaking.NewGenerator(queries, logger)
	pool := matchmaking.NewPool(queries, generator, logger)

	queue := matchmaking.NewQueue(queries, generator, logger)
	go queue.Run(ctx)

	return &HandlerRepo{
		logger:       logger,
		queries:      queries,
		jwtParser:    jwt.NewJWTParser(secKey, issuer, audience, logger),
		arenaHub:     arenaHub,
		queue:        queue,
		pool:         pool,
		geminiClient: geminiClient,
		rabbitClient: rabbitClient,
	}
}

func toPgtypeUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{
		Bytes: id,
		Valid: true,
	}
}

// Getter methods for wiring the background sweep
func (hr *HandlerRepo) GetArenaHub() *hub.ArenaHub {
	return hr.arenaHub
}

func (hr *HandlerRepo) GetPool() *matchmaking.Pool {
	return hr.pool
}

func (hr *HandlerRepo) GetLogger() *slog.Logger {
	return hr.logger
}
