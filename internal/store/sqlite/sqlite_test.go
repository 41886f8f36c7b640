package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafepos/backend/internal/store"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cafe_pos.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	_, ok, err := s.Get(ctx, store.SlotProducts)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, store.SlotProducts, `[{"id":"a"}]`))
	require.NoError(t, s.Set(ctx, store.SlotProducts, `[{"id":"b"}]`))

	value, ok, err := s.Get(ctx, store.SlotProducts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"b"}]`, value)
}

func TestSlotsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.Set(ctx, store.SlotOrders, "[]"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, store.SlotOrders)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestEmptyKey(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()
	assert.ErrorIs(t, s.Set(context.Background(), "", "x"), store.ErrEmptyKey)
}
