package matchmaking

import (
	"context"
	"errors"
	"testing"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPoolStore implements PoolStore for testing
type MockPoolStore struct {
	mock.Mock
}

func (m *MockPoolStore) CountUpcomingArenas(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestEnsureAvailable(t *testing.T) {
	t.Run("tops the pool up to the target", func(t *testing.T) {
		mockStore := new(MockPoolStore)
		mockStore.On("CountUpcomingArenas", mock.Anything).Return(int64(7), nil)

		mockGenerator := new(MockArenaGenerator)
		mockGenerator.On("CreateRandomArena", mock.Anything).
			Return(store.Arena{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}}, nil).Times(3)

		pool := NewPool(mockStore, mockGenerator, testLogger())

		err := pool.EnsureAvailable(context.Background(), DefaultPoolTarget)

		assert.NoError(t, err)
		mockGenerator.AssertExpectations(t)
	})

	t.Run("does nothing at or above the target", func(t *testing.T) {
		mockStore := new(MockPoolStore)
		mockStore.On("CountUpcomingArenas", mock.Anything).Return(int64(12), nil)

		mockGenerator := new(MockArenaGenerator)
		pool := NewPool(mockStore, mockGenerator, testLogger())

		err := pool.EnsureAvailable(context.Background(), DefaultPoolTarget)

		assert.NoError(t, err)
		mockGenerator.AssertNotCalled(t, "CreateRandomArena", mock.Anything)
	})

	t.Run("stops at the first generation failure", func(t *testing.T) {
		mockStore := new(MockPoolStore)
		mockStore.On("CountUpcomingArenas", mock.Anything).Return(int64(8), nil)

		mockGenerator := new(MockArenaGenerator)
		mockGenerator.On("CreateRandomArena", mock.Anything).
			Return(store.Arena{}, errors.New("connection refused")).Once()

		pool := NewPool(mockStore, mockGenerator, testLogger())

		err := pool.EnsureAvailable(context.Background(), DefaultPoolTarget)

		assert.Error(t, err)
		mockGenerator.AssertNumberOfCalls(t, "CreateRandomArena", 1)
	})

	t.Run("propagates count failure", func(t *testing.T) {
		mockStore := new(MockPoolStore)
		mockStore.On("CountUpcomingArenas", mock.Anything).Return(int64(0), errors.New("connection refused"))

		mockGenerator := new(MockArenaGenerator)
		pool := NewPool(mockStore, mockGenerator, testLogger())

		err := pool.EnsureAvailable(context.Background(), DefaultPoolTarget)

		assert.Error(t, err)
		mockGenerator.AssertNotCalled(t, "CreateRandomArena", mock.Anything)
	})
}
