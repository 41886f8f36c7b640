package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafepos/backend/internal/store"
)

func setupTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	s := NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), "test:")
	t.Cleanup(func() {
		_ = s.Close()
		mr.Close()
	})
	return mr, s
}

func TestPing(t *testing.T) {
	_, s := setupTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestGetMissingSlot(t *testing.T) {
	_, s := setupTestStore(t)
	value, ok, err := s.Get(context.Background(), store.SlotCart)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetUsesPrefixAndNoExpiry(t *testing.T) {
	mr, s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, store.SlotCart, `[]`))

	raw, err := mr.Get("test:" + store.SlotCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.Zero(t, mr.TTL("test:"+store.SlotCart))

	value, ok, err := s.Get(ctx, store.SlotCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestBackendDownSurfacesError(t *testing.T) {
	mr, s := setupTestStore(t)
	mr.Close()

	_, _, err := s.Get(context.Background(), store.SlotOrders)
	assert.Error(t, err)
}
