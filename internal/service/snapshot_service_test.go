package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"caseable-catalog/internal/client"
	"caseable-catalog/internal/model"
	"caseable-catalog/internal/snapshot"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of snapshot.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, key string, snap *snapshot.Snapshot) error {
	args := m.Called(ctx, key, snap)
	return args.Error(0)
}

func (m *MockStore) Load(ctx context.Context, key string) (*snapshot.Snapshot, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*snapshot.Snapshot), args.Error(1)
}

func newSnapshotSource() *MockCatalog {
	m := new(MockCatalog)
	m.On("Settings").Return(client.Settings{
		BaseURL: "https://api.example.com",
		Partner: "acme",
		Region:  "eu",
		Lang:    "de",
	}).Maybe()
	return m
}

func TestSnapshotService_Export(t *testing.T) {
	ctx := context.Background()
	source := newSnapshotSource()
	source.On("GetProductTypes", ctx).Return(testProductTypes, nil)
	source.On("GetDevices", ctx).Return([]model.Device{{ID: "apple-iphone-5"}}, nil)
	source.On("GetFilters", ctx).Return([]model.Filter{{Name: "device", Options: []string{}}}, nil)

	store := new(MockStore)
	store.On("Save", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*snapshot.Snapshot")).Return(nil)

	svc := NewSnapshotService(source, store, zerolog.Nop())
	key, snap, err := svc.Export(ctx)

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, strings.HasPrefix(key, "catalog-acme-eu-de-"))
	assert.Equal(t, snapshot.Key(snap), key)
	assert.Equal(t, testProductTypes, snap.ProductTypes)
	assert.Len(t, snap.Devices, 1)
	assert.Len(t, snap.Filters, 1)

	store.AssertCalled(t, "Save", ctx, key, snap)
	source.AssertExpectations(t)
}

func TestSnapshotService_Export_FetchError(t *testing.T) {
	ctx := context.Background()
	source := newSnapshotSource()
	source.On("GetProductTypes", ctx).Return(nil, model.ErrNotInitialized)

	store := new(MockStore)

	svc := NewSnapshotService(source, store, zerolog.Nop())
	key, snap, err := svc.Export(ctx)

	assert.Empty(t, key)
	assert.Nil(t, snap)
	assert.True(t, errors.Is(err, model.ErrNotInitialized))
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSnapshotService_Export_SaveError(t *testing.T) {
	ctx := context.Background()
	source := newSnapshotSource()
	source.On("GetProductTypes", ctx).Return(testProductTypes, nil)
	source.On("GetDevices", ctx).Return([]model.Device{}, nil)
	source.On("GetFilters", ctx).Return([]model.Filter{}, nil)

	saveErr := errors.New("disk full")
	store := new(MockStore)
	store.On("Save", ctx, mock.Anything, mock.Anything).Return(saveErr)

	svc := NewSnapshotService(source, store, zerolog.Nop())
	key, snap, err := svc.Export(ctx)

	assert.Empty(t, key)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, saveErr)
}
