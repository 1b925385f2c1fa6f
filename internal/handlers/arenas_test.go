package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockQuerier implements the Querier interface for testing
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) CreateArena(ctx context.Context, params store.CreateArenaParams) (store.Arena, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.Arena), args.Error(1)
}

func (m *MockQuerier) GetArenaByID(ctx context.Context, id pgtype.UUID) (store.Arena, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.Arena), args.Error(1)
}

func (m *MockQuerier) ListArenas(ctx context.Context, status store.NullArenaStatus) ([]store.ListArenasRow, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]store.ListArenasRow), args.Error(1)
}

func (m *MockQuerier) AddArenaParticipant(ctx context.Context, params store.AddArenaParticipantParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockQuerier) GetArenaParticipant(ctx context.Context, params store.GetArenaParticipantParams) (store.ArenaParticipant, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.ArenaParticipant), args.Error(1)
}

func (m *MockQuerier) CountArenaParticipants(ctx context.Context, arenaID pgtype.UUID) (int64, error) {
	args := m.Called(ctx, arenaID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) GetArenaTestCases(ctx context.Context, arenaID pgtype.UUID) ([]store.ArenaTestCase, error) {
	args := m.Called(ctx, arenaID)
	return args.Get(0).([]store.ArenaTestCase), args.Error(1)
}

func (m *MockQuerier) CreateArenaTestCase(ctx context.Context, params store.CreateArenaTestCaseParams) (store.ArenaTestCase, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.ArenaTestCase), args.Error(1)
}

func (m *MockQuerier) DeleteArenaTestCases(ctx context.Context, arenaID pgtype.UUID) error {
	args := m.Called(ctx, arenaID)
	return args.Error(0)
}

func (m *MockQuerier) GetOpenUpcomingArena(ctx context.Context) (store.Arena, error) {
	args := m.Called(ctx)
	return args.Get(0).(store.Arena), args.Error(1)
}

func (m *MockQuerier) GetUserByID(ctx context.Context, id pgtype.UUID) (store.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.User), args.Error(1)
}

func (m *MockQuerier) ListUserMatches(ctx context.Context, userID pgtype.UUID) ([]store.UserMatch, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]store.UserMatch), args.Error(1)
}

func (m *MockQuerier) GetTokenLeaderboard(ctx context.Context, limit int32) ([]store.GetTokenLeaderboardRow, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]store.GetTokenLeaderboardRow), args.Error(1)
}

func (m *MockQuerier) CreditUserTokens(ctx context.Context, params store.CreditUserTokensParams) (store.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.User), args.Error(1)
}

func (m *MockQuerier) AddUserBadge(ctx context.Context, params store.AddUserBadgeParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockQuerier) CreateUserMatch(ctx context.Context, params store.CreateUserMatchParams) (store.UserMatch, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.UserMatch), args.Error(1)
}

// Helper to create test handler with mocks
func newTestHandler(t *testing.T) (*HandlerRepo, *MockQuerier) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	mockQueries := new(MockQuerier)

	hr := &HandlerRepo{
		logger:    logger,
		queries:   mockQueries,
		jwtParser: jwt.NewJWTParser("test-secret", "", "", logger),
	}

	return hr, mockQueries
}

// Helper to add user claims to context
func contextWithClaims(ctx context.Context, userID uuid.UUID) context.Context {
	claims := &jwt.UserClaims{
		Sub:      userID.String(),
		Username: "tester",
	}
	return context.WithValue(ctx, UserClaimsKey, claims)
}

func contextWithURLParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func TestCreateArenaHandler(t *testing.T) {
	futureStart := time.Now().Add(time.Hour)
	hostID := uuid.New()

	tests := []struct {
		name           string
		request        ArenaCreationRequest
		expectedStatus int
	}{
		{
			name: "empty title",
			request: ArenaCreationRequest{
				Title:       "",
				Description: "Reverse a string",
				Category:    "Strings",
				Difficulty:  "Easy",
				StartTime:   futureStart,
				TokenPrize:  100,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty description",
			request: ArenaCreationRequest{
				Title:      "String Sprint",
				Category:   "Strings",
				Difficulty: "Easy",
				StartTime:  futureStart,
				TokenPrize: 100,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid category",
			request: ArenaCreationRequest{
				Title:       "String Sprint",
				Description: "Reverse a string",
				Category:    "Puzzles",
				Difficulty:  "Easy",
				StartTime:   futureStart,
				TokenPrize:  100,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid difficulty",
			request: ArenaCreationRequest{
				Title:       "String Sprint",
				Description: "Reverse a string",
				Category:    "Strings",
				Difficulty:  "Impossible",
				StartTime:   futureStart,
				TokenPrize:  100,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "start time in the past",
			request: ArenaCreationRequest{
				Title:       "String Sprint",
				Description: "Reverse a string",
				Category:    "Strings",
				Difficulty:  "Easy",
				StartTime:   time.Now().Add(-time.Hour),
				TokenPrize:  100,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "zero token prize",
			request: ArenaCreationRequest{
				Title:       "String Sprint",
				Description: "Reverse a string",
				Category:    "Strings",
				Difficulty:  "Easy",
				StartTime:   futureStart,
				TokenPrize:  0,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "valid request",
			request: ArenaCreationRequest{
				Title:       "String Sprint",
				Description: "Reverse a string",
				Category:    "Strings",
				Difficulty:  "Easy",
				StartTime:   futureStart,
				TokenPrize:  100,
				EntryFee:    10,
			},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hr, mockQueries := newTestHandler(t)

			if tt.expectedStatus == http.StatusCreated {
				mockQueries.On("CreateArena", mock.Anything, mock.MatchedBy(func(params store.CreateArenaParams) bool {
					return params.Title == tt.request.Title &&
						uuid.UUID(params.HostID.Bytes) == hostID &&
						params.Status == store.ArenaStatusUpcoming &&
						params.MaxParticipants == 2
				})).Return(store.Arena{
					ID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
					Title:      tt.request.Title,
					Status:     store.ArenaStatusUpcoming,
					HostID:     pgtype.UUID{Bytes: hostID, Valid: true},
					TokenPrize: tt.request.TokenPrize,
				}, nil).Once()
			}

			body, _ := json.Marshal(tt.request)
			r := httptest.NewRequest(http.MethodPost, "/arenas", bytes.NewReader(body))
			r = r.WithContext(contextWithClaims(r.Context(), hostID))
			w := httptest.NewRecorder()

			hr.CreateArenaHandler(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockQueries.AssertExpectations(t)
		})
	}
}

func TestJoinArenaHandler(t *testing.T) {
	arenaID := uuid.New()
	userID := uuid.New()

	arena := store.Arena{
		ID:              pgtype.UUID{Bytes: arenaID, Valid: true},
		Status:          store.ArenaStatusUpcoming,
		MaxParticipants: 2,
	}

	newJoinRequest := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/arenas/"+arenaID.String()+"/join", nil)
		ctx := contextWithClaims(r.Context(), userID)
		ctx = contextWithURLParam(ctx, "arena_id", arenaID.String())
		return r.WithContext(ctx)
	}

	t.Run("joins an open arena", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(arena, nil)
		mockQueries.On("GetArenaParticipant", mock.Anything, mock.Anything).
			Return(store.ArenaParticipant{}, pgx.ErrNoRows)
		mockQueries.On("CountArenaParticipants", mock.Anything, arena.ID).Return(int64(1), nil)
		mockQueries.On("AddArenaParticipant", mock.Anything, store.AddArenaParticipantParams{
			ArenaID: arena.ID,
			UserID:  pgtype.UUID{Bytes: userID, Valid: true},
		}).Return(nil).Once()

		w := httptest.NewRecorder()
		hr.JoinArenaHandler(w, newJoinRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		mockQueries.AssertExpectations(t)
	})

	t.Run("rejoin is not an error", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(arena, nil)
		mockQueries.On("GetArenaParticipant", mock.Anything, mock.Anything).
			Return(store.ArenaParticipant{ArenaID: arena.ID}, nil)

		w := httptest.NewRecorder()
		hr.JoinArenaHandler(w, newJoinRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		mockQueries.AssertNotCalled(t, "AddArenaParticipant", mock.Anything, mock.Anything)
	})

	t.Run("full arena rejects the join", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(arena, nil)
		mockQueries.On("GetArenaParticipant", mock.Anything, mock.Anything).
			Return(store.ArenaParticipant{}, pgx.ErrNoRows)
		mockQueries.On("CountArenaParticipants", mock.Anything, arena.ID).Return(int64(2), nil)

		w := httptest.NewRecorder()
		hr.JoinArenaHandler(w, newJoinRequest())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockQueries.AssertNotCalled(t, "AddArenaParticipant", mock.Anything, mock.Anything)
	})

	t.Run("unknown arena is a 404", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(store.Arena{}, pgx.ErrNoRows)

		w := httptest.NewRecorder()
		hr.JoinArenaHandler(w, newJoinRequest())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed arena id is a 400", func(t *testing.T) {
		hr, _ := newTestHandler(t)

		r := httptest.NewRequest(http.MethodPost, "/arenas/nope/join", nil)
		ctx := contextWithClaims(r.Context(), userID)
		ctx = contextWithURLParam(ctx, "arena_id", "nope")
		w := httptest.NewRecorder()

		hr.JoinArenaHandler(w, r.WithContext(ctx))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAwardRewardsHandler(t *testing.T) {
	arenaID := uuid.New()
	hostID := uuid.New()
	playerID := uuid.New()

	arena := store.Arena{
		ID:         pgtype.UUID{Bytes: arenaID, Valid: true},
		HostID:     pgtype.UUID{Bytes: hostID, Valid: true},
		TokenPrize: 500,
	}

	newRewardRequest := func(callerID uuid.UUID, body RewardRequest) *http.Request {
		payload, _ := json.Marshal(body)
		r := httptest.NewRequest(http.MethodPost, "/arenas/"+arenaID.String()+"/rewards", bytes.NewReader(payload))
		ctx := contextWithClaims(r.Context(), callerID)
		ctx = contextWithURLParam(ctx, "arena_id", arenaID.String())
		return r.WithContext(ctx)
	}

	t.Run("non-host cannot award rewards", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(arena, nil)

		w := httptest.NewRecorder()
		hr.AwardRewardsHandler(w, newRewardRequest(playerID, RewardRequest{UserID: playerID.String(), Rank: 1}))

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockQueries.AssertNotCalled(t, "CreditUserTokens", mock.Anything, mock.Anything)
	})

	t.Run("gold rank pays the full prize and records a win", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(arena, nil)
		mockQueries.On("AddUserBadge", mock.Anything, store.AddUserBadgeParams{
			ID:    pgtype.UUID{Bytes: playerID, Valid: true},
			Badge: "Gold Medal",
		}).Return(nil).Once()
		mockQueries.On("CreditUserTokens", mock.Anything, store.CreditUserTokensParams{
			ID:     pgtype.UUID{Bytes: playerID, Valid: true},
			Amount: 500,
		}).Return(store.User{}, nil).Once()
		mockQueries.On("CreateUserMatch", mock.Anything, mock.MatchedBy(func(params store.CreateUserMatchParams) bool {
			return params.Result == store.MatchResultWon && params.Rank == 1
		})).Return(store.UserMatch{}, nil).Once()

		w := httptest.NewRecorder()
		hr.AwardRewardsHandler(w, newRewardRequest(hostID, RewardRequest{UserID: playerID.String(), Score: 80, Rank: 1}))

		assert.Equal(t, http.StatusOK, w.Code)
		mockQueries.AssertExpectations(t)
	})

	t.Run("bronze rank pays a quarter of the prize", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(arena, nil)
		mockQueries.On("AddUserBadge", mock.Anything, store.AddUserBadgeParams{
			ID:    pgtype.UUID{Bytes: playerID, Valid: true},
			Badge: "Bronze Medal",
		}).Return(nil).Once()
		mockQueries.On("CreditUserTokens", mock.Anything, store.CreditUserTokensParams{
			ID:     pgtype.UUID{Bytes: playerID, Valid: true},
			Amount: 125,
		}).Return(store.User{}, nil).Once()
		mockQueries.On("CreateUserMatch", mock.Anything, mock.MatchedBy(func(params store.CreateUserMatchParams) bool {
			return params.Result == store.MatchResultLost && params.Rank == 3
		})).Return(store.UserMatch{}, nil).Once()

		w := httptest.NewRecorder()
		hr.AwardRewardsHandler(w, newRewardRequest(hostID, RewardRequest{UserID: playerID.String(), Score: 40, Rank: 3}))

		assert.Equal(t, http.StatusOK, w.Code)
		mockQueries.AssertExpectations(t)
	})

	t.Run("unranked participant gets history but no payout", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("GetArenaByID", mock.Anything, mock.Anything).Return(arena, nil)
		mockQueries.On("CreateUserMatch", mock.Anything, mock.Anything).Return(store.UserMatch{}, nil).Once()

		w := httptest.NewRecorder()
		hr.AwardRewardsHandler(w, newRewardRequest(hostID, RewardRequest{UserID: playerID.String(), Score: 10, Rank: 4}))

		assert.Equal(t, http.StatusOK, w.Code)
		mockQueries.AssertNotCalled(t, "CreditUserTokens", mock.Anything, mock.Anything)
		mockQueries.AssertNotCalled(t, "AddUserBadge", mock.Anything, mock.Anything)
	})
}

func TestListArenasHandler(t *testing.T) {
	t.Run("invalid status filter is rejected", func(t *testing.T) {
		hr, _ := newTestHandler(t)

		r := httptest.NewRequest(http.MethodGet, "/arenas?status=paused", nil)
		w := httptest.NewRecorder()

		hr.ListArenasHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("filters by status and includes participant counts", func(t *testing.T) {
		hr, mockQueries := newTestHandler(t)
		mockQueries.On("ListArenas", mock.Anything, store.NullArenaStatus{
			ArenaStatus: store.ArenaStatusUpcoming,
			Valid:       true,
		}).Return([]store.ListArenasRow{
			{
				Arena:            store.Arena{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, Title: "Math Melee"},
				ParticipantCount: 1,
			},
		}, nil).Once()

		r := httptest.NewRequest(http.MethodGet, "/arenas?status=upcoming", nil)
		w := httptest.NewRecorder()

		hr.ListArenasHandler(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Math Melee")
		assert.Contains(t, w.Body.String(), `"participants":1`)
		mockQueries.AssertExpectations(t)
	})
}

func TestGetLeaderboardHandler(t *testing.T) {
	hr, mockQueries := newTestHandler(t)
	mockQueries.On("GetTokenLeaderboard", mock.Anything, int32(10)).
		Return([]store.GetTokenLeaderboardRow{
			{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, Username: "alice", Tokens: 900, Wins: 4, TotalMatches: 6},
			{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, Username: "bob", Tokens: 400, Wins: 1, TotalMatches: 5},
		}, nil).Once()

	r := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	w := httptest.NewRecorder()

	hr.GetLeaderboardHandler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rank":1`)
	assert.Contains(t, w.Body.String(), "alice")
	mockQueries.AssertExpectations(t)
}
