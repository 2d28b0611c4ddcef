package tieredcache

import (
	"context"
	"testing"
	"time"

	"github.com/Krishna8167/cachecore"
	"github.com/Krishna8167/cachecore/eviction"
	"github.com/Krishna8167/cachecore/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWritesThroughAndGetHitsL1(t *testing.T) {
	l1 := cachecore.New[string]()
	defer l1.Dispose()
	l2 := store.NewMemoryStore[string]()
	tc := New(l1, l2)

	ctx := context.Background()
	require.NoError(t, tc.Set(ctx, "a", "1", 0))

	v, err := tc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	entry, ok, err := l2.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", entry.Value)
}

// An L1 eviction does not lose the value, since it is still
// recoverable from L2 on the next Get, which also promotes it back
// into L1.
func TestL1EvictionThenL2PromotionOnAccess(t *testing.T) {
	l1 := cachecore.New[string](
		cachecore.WithMaxEntries[string](1),
		cachecore.WithEvictionPolicy[string](eviction.LRU),
	)
	defer l1.Dispose()
	l2 := store.NewMemoryStore[string]()
	tc := New(l1, l2)

	ctx := context.Background()
	require.NoError(t, tc.Set(ctx, "a", "1", 0))
	require.NoError(t, tc.Set(ctx, "b", "2", 0)) // evicts a from L1 (capacity 1)

	assert.False(t, l1.ContainsKey("a"))

	v, err := tc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v, "a should still be served from L2 after L1 eviction")

	assert.True(t, l1.ContainsKey("a"), "a should be promoted back into L1 on access")
}

func TestGetMissesOnBothLayersReturnsZeroValueNoError(t *testing.T) {
	l1 := cachecore.New[string]()
	defer l1.Dispose()
	tc := New(l1, store.NewMemoryStore[string]())

	v, err := tc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestWriteThroughDisabledSkipsL2(t *testing.T) {
	l1 := cachecore.New[string]()
	defer l1.Dispose()
	l2 := store.NewMemoryStore[string]()
	tc := New(l1, l2, WithWriteThrough(false))

	ctx := context.Background()
	require.NoError(t, tc.Set(ctx, "a", "1", 0))

	_, ok, err := l2.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromoteOnAccessDisabledLeavesL1Empty(t *testing.T) {
	l1 := cachecore.New[string](
		cachecore.WithMaxEntries[string](1),
		cachecore.WithEvictionPolicy[string](eviction.LRU),
	)
	defer l1.Dispose()
	l2 := store.NewMemoryStore[string]()
	tc := New(l1, l2, WithPromoteOnAccess(false))

	ctx := context.Background()
	require.NoError(t, tc.Set(ctx, "a", "1", 0))
	require.NoError(t, tc.Set(ctx, "b", "2", 0))

	v, err := tc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.False(t, l1.ContainsKey("a"))
}

func TestRemoveDeletesFromBothLayers(t *testing.T) {
	l1 := cachecore.New[string]()
	defer l1.Dispose()
	l2 := store.NewMemoryStore[string]()
	tc := New(l1, l2)

	ctx := context.Background()
	require.NoError(t, tc.Set(ctx, "a", "1", 0))
	require.NoError(t, tc.Remove(ctx, "a"))

	assert.False(t, l1.ContainsKey("a"))
	_, ok, _ := l2.Get(ctx, "a")
	assert.False(t, ok)
}

func TestFlushL1ToL2ThenClear(t *testing.T) {
	l1 := cachecore.New[string]()
	defer l1.Dispose()
	l2 := store.NewMemoryStore[string]()
	tc := New(l1, l2, WithWriteThrough(false))

	l1.Set("a", "1", 0)
	l1.Set("b", "2", 0)

	require.NoError(t, tc.FlushL1ToL2(context.Background()))

	assert.Equal(t, 0, l1.Len())
	n, err := l2.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestL2EntryExpiredIsReclaimedAsMiss(t *testing.T) {
	l1 := cachecore.New[string]()
	defer l1.Dispose()
	l2 := store.NewMemoryStore[string]()
	tc := New(l1, l2)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, l2.Put(context.Background(), "a", store.Entry[string]{
		Value: "stale", CreatedAt: expired.Add(-time.Hour), ExpiresAt: &expired,
	}))

	v, err := tc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	_, ok, _ := l2.Get(context.Background(), "a")
	assert.False(t, ok, "expired L2 entry should be reclaimed on access")
}
