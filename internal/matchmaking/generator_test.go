package matchmaking

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGeneratorStore implements GeneratorStore for testing
type MockGeneratorStore struct {
	mock.Mock
}

func (m *MockGeneratorStore) CreateArena(ctx context.Context, params store.CreateArenaParams) (store.Arena, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.Arena), args.Error(1)
}

func (m *MockGeneratorStore) CreateArenaTestCase(ctx context.Context, params store.CreateArenaTestCaseParams) (store.ArenaTestCase, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.ArenaTestCase), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCreateRandomArena(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("picks category and difficulty from the fixed pools", func(t *testing.T) {
		mockStore := new(MockGeneratorStore)
		generator := NewGenerator(mockStore, testLogger())
		generator.now = func() time.Time { return now }
		// Strings (index 1) x Hard (index 2), start offset 10 minutes.
		picks := []int{1, 2, int(10 * time.Minute)}
		generator.randInt = func(n int) int {
			pick := picks[0]
			picks = picks[1:]
			return pick
		}

		arenaID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
		mockStore.On("CreateArena", mock.Anything, mock.MatchedBy(func(params store.CreateArenaParams) bool {
			return params.Category == store.ArenaCategoryStrings &&
				params.Difficulty == store.ArenaDifficultyHard &&
				params.EntryFee == 50 &&
				params.TokenPrize == 500 &&
				params.MaxParticipants == 2 &&
				params.Title == "Hard Strings Challenge" &&
				params.StartTime.Time.Equal(now.Add(10*time.Minute))
		})).Return(store.Arena{ID: arenaID}, nil)

		mockStore.On("CreateArenaTestCase", mock.Anything, store.CreateArenaTestCaseParams{
			ArenaID:        arenaID,
			Input:          "code",
			ExpectedOutput: "pass",
			Description:    pgtype.Text{String: "Complete the task", Valid: true},
		}).Return(store.ArenaTestCase{}, nil)

		arena, err := generator.CreateRandomArena(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, arenaID, arena.ID)
		mockStore.AssertExpectations(t)
	})

	t.Run("start time always lands inside the half hour window", func(t *testing.T) {
		mockStore := new(MockGeneratorStore)
		generator := NewGenerator(mockStore, testLogger())
		generator.now = func() time.Time { return now }

		mockStore.On("CreateArena", mock.Anything, mock.MatchedBy(func(params store.CreateArenaParams) bool {
			offset := params.StartTime.Time.Sub(now)
			return offset >= 0 && offset < 30*time.Minute
		})).Return(store.Arena{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}}, nil)
		mockStore.On("CreateArenaTestCase", mock.Anything, mock.Anything).Return(store.ArenaTestCase{}, nil)

		for i := 0; i < 20; i++ {
			_, err := generator.CreateRandomArena(context.Background())
			assert.NoError(t, err)
		}
		mockStore.AssertExpectations(t)
	})

	t.Run("propagates arena insert failure", func(t *testing.T) {
		mockStore := new(MockGeneratorStore)
		generator := NewGenerator(mockStore, testLogger())

		mockStore.On("CreateArena", mock.Anything, mock.Anything).
			Return(store.Arena{}, errors.New("connection refused"))

		_, err := generator.CreateRandomArena(context.Background())

		assert.Error(t, err)
		mockStore.AssertNotCalled(t, "CreateArenaTestCase", mock.Anything, mock.Anything)
	})

	t.Run("propagates test case insert failure", func(t *testing.T) {
		mockStore := new(MockGeneratorStore)
		generator := NewGenerator(mockStore, testLogger())

		mockStore.On("CreateArena", mock.Anything, mock.Anything).
			Return(store.Arena{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}}, nil)
		mockStore.On("CreateArenaTestCase", mock.Anything, mock.Anything).
			Return(store.ArenaTestCase{}, errors.New("connection refused"))

		_, err := generator.CreateRandomArena(context.Background())

		assert.Error(t, err)
	})
}

func TestChallengeTemplates(t *testing.T) {
	t.Run("every category and difficulty pair has a description", func(t *testing.T) {
		for _, category := range Categories {
			for _, difficulty := range Difficulties {
				assert.NotEmpty(t, ChallengeDescription(category, difficulty))
			}
		}
	})

	t.Run("fees and prizes follow difficulty", func(t *testing.T) {
		assert.Equal(t, int32(10), EntryFee(store.ArenaDifficultyEasy))
		assert.Equal(t, int32(100), TokenPrize(store.ArenaDifficultyEasy))
		assert.Equal(t, int32(25), EntryFee(store.ArenaDifficultyMedium))
		assert.Equal(t, int32(250), TokenPrize(store.ArenaDifficultyMedium))
		assert.Equal(t, int32(50), EntryFee(store.ArenaDifficultyHard))
		assert.Equal(t, int32(500), TokenPrize(store.ArenaDifficultyHard))
	})
}
