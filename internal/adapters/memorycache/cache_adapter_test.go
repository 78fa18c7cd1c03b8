package memorycache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	cache := NewMemoryCacheAdapter()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k1", []byte("v1"), time.Minute))

	value, found, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("v1"), value)
}

func TestGetMissingKey(t *testing.T) {
	cache := NewMemoryCacheAdapter()

	_, found, err := cache.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, found)
}

func TestExpiredEntryIsGone(t *testing.T) {
	cache := NewMemoryCacheAdapter()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, found, err := cache.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDeleteRemovesOnlyNamedKeys(t *testing.T) {
	cache := NewMemoryCacheAdapter()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, cache.Delete(ctx, "a"))

	_, found, _ := cache.Get(ctx, "a")
	require.False(t, found)
	_, found, _ = cache.Get(ctx, "b")
	require.True(t, found)
}

// TestDeleteByPrefix verifies that prefix invalidation removes the whole
// key family and nothing else.
func TestDeleteByPrefix(t *testing.T) {
	cache := NewMemoryCacheAdapter()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "listing-list:all:1:10:createdAt:desc", []byte("p1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "listing-list:city=austin:1:10:createdAt:desc", []byte("p2"), time.Minute))
	require.NoError(t, cache.Set(ctx, "listing-detail:PROP1", []byte("d"), time.Minute))

	require.NoError(t, cache.DeleteByPrefix(ctx, "listing-list:"))

	require.Equal(t, 1, cache.Len())
	_, found, _ := cache.Get(ctx, "listing-detail:PROP1")
	require.True(t, found)
}
