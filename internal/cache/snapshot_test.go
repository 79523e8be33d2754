package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) GetReservations(ctx context.Context) ([]domain.Reservation, int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(int64), args.Error(2)
}

func (m *MockSnapshotStore) SetReservations(ctx context.Context, reservations []domain.Reservation, generation int64) (bool, error) {
	args := m.Called(ctx, reservations, generation)
	return args.Bool(0), args.Error(1)
}

func loader(reservations []domain.Reservation, err error) (func(context.Context) ([]domain.Reservation, error), *int) {
	calls := 0
	return func(context.Context) ([]domain.Reservation, error) {
		calls++
		return reservations, err
	}, &calls
}

func TestLoadSnapshot_Hit(t *testing.T) {
	store := &MockSnapshotStore{}
	ctx := context.Background()
	cached := []domain.Reservation{{ID: "1"}}
	store.On("GetReservations", ctx).Return(cached, int64(2), nil).Once()
	load, calls := loader(nil, nil)

	got, err := LoadSnapshot(ctx, store, load)

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	assert.Equal(t, 0, *calls)
	store.AssertNotCalled(t, "SetReservations", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadSnapshot_MissStoresWithReadGeneration(t *testing.T) {
	store := &MockSnapshotStore{}
	ctx := context.Background()
	all := []domain.Reservation{{ID: "1"}, {ID: "2"}}
	store.On("GetReservations", ctx).Return(nil, int64(5), nil).Once()
	store.On("SetReservations", ctx, all, int64(5)).Return(false, nil).Once()
	load, calls := loader(all, nil)

	got, err := LoadSnapshot(ctx, store, load)

	require.NoError(t, err)
	assert.Equal(t, all, got, "a rejected write still returns the loaded rows")
	assert.Equal(t, 1, *calls)
	store.AssertExpectations(t)
}

func TestLoadSnapshot_CacheErrorSkipsWrite(t *testing.T) {
	store := &MockSnapshotStore{}
	ctx := context.Background()
	store.On("GetReservations", ctx).Return(nil, int64(0), errors.New("redis down")).Once()
	load, _ := loader([]domain.Reservation{}, nil)

	got, err := LoadSnapshot(ctx, store, load)

	require.NoError(t, err)
	assert.Empty(t, got)
	store.AssertNotCalled(t, "SetReservations", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadSnapshot_LoadError(t *testing.T) {
	store := &MockSnapshotStore{}
	ctx := context.Background()
	expectedErr := errors.New("database error")
	store.On("GetReservations", ctx).Return(nil, int64(1), nil).Once()
	load, _ := loader(nil, expectedErr)

	got, err := LoadSnapshot(ctx, store, load)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, expectedErr)
	store.AssertNotCalled(t, "SetReservations", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadSnapshot_NilStore(t *testing.T) {
	load, calls := loader([]domain.Reservation{{ID: "1"}}, nil)

	got, err := LoadSnapshot(context.Background(), nil, load)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, *calls)
}
