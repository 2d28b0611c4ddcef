package cachecore

import (
	"sync"
	"testing"
	"time"

	"github.com/Krishna8167/cachecore/eviction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestGetMissOnAbsentKey(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	v, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestSetWithTTLExpires(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestSetPermanentNeverExpires(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.SetPermanent("a", "1")
	time.Sleep(5 * time.Millisecond)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestDefaultTTLAppliedWhenNoneGiven(t *testing.T) {
	c := New[string](WithDefaultTTL[string](10 * time.Millisecond))
	defer c.Dispose()

	c.Set("a", "1", 0)
	ttl, ok := c.TimeToLive("a")
	require.True(t, ok)
	assert.LessOrEqual(t, ttl, 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestContainsKeyDoesNotRecordMiss(t *testing.T) {
	c := New[string](WithRecordStats[string](true))
	defer c.Dispose()

	assert.False(t, c.ContainsKey("absent"))
	stats := c.Stats()
	assert.Zero(t, stats.Misses)

	c.Set("a", "1", 0)
	assert.True(t, c.ContainsKey("a"))
}

func TestRemoveReturnsValueAndDeletes(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", 0)
	v, ok := c.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = c.Remove("a")
	assert.False(t, ok)
}

func TestGetOrSetComputesOnceThenCaches(t *testing.T) {
	c := New[int]()
	defer c.Dispose()

	calls := 0
	compute := func() int {
		calls++
		return 42
	}

	v1 := c.GetOrSet("k", compute, 0)
	v2 := c.GetOrSet("k", compute, 0)
	assert.Equal(t, 42, v1)
	assert.Equal(t, 42, v2)
	assert.Equal(t, 1, calls)
}

func TestExtendTTLPushesOutExpiry(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", 20*time.Millisecond)
	ok := c.ExtendTTL("a", 100*time.Millisecond)
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("a")
	assert.True(t, ok, "entry should still be alive after extension")
}

func TestRefreshResetsCreatedAt(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", time.Hour)
	time.Sleep(10 * time.Millisecond)
	age1, _ := c.GetAge("a")

	ok := c.Refresh("a", time.Hour)
	require.True(t, ok)
	age2, _ := c.GetAge("a")
	assert.Less(t, age2, age1)
}

func TestEventsEmitCreatedAndUpdatedAndRemoved(t *testing.T) {
	c := New[string](WithEventStream[string](true))
	defer c.Dispose()

	sub, ok := c.Subscribe()
	require.True(t, ok)
	defer sub.Dispose()

	c.Set("a", "1", 0)
	c.Set("a", "2", 0)
	c.Remove("a")

	var types []EventType
	for i := 0; i < 3; i++ {
		select {
		case e := <-sub.Events():
			types = append(types, e.Type)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	assert.Equal(t, []EventType{Created, Updated, Removed}, types)
}

func TestSubscribeWithoutEventStreamReturnsFalse(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	_, ok := c.Subscribe()
	assert.False(t, ok)
}

func TestClearWithoutPreserveEmitsSingleClearedEvent(t *testing.T) {
	c := New[string](WithEventStream[string](true))
	defer c.Dispose()

	c.Set("a", "1", 0)
	c.Set("b", "2", 0)

	sub, _ := c.Subscribe()
	defer sub.Dispose()

	c.Clear()
	select {
	case e := <-sub.Events():
		assert.Equal(t, Cleared, e.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Cleared event")
	}

	select {
	case e, ok := <-sub.Events():
		t.Fatalf("unexpected extra event: %+v (ok=%v)", e, ok)
	case <-time.After(20 * time.Millisecond):
	}
	assert.Zero(t, c.Len())
}

func TestClearWithPreserveKeepsNamedKeysAndEmitsPerEntryRemoved(t *testing.T) {
	c := New[string](WithEventStream[string](true))
	defer c.Dispose()

	c.Set("keep", "k", 0)
	c.Set("drop", "d", 0)

	sub, _ := c.Subscribe()
	defer sub.Dispose()

	c.Clear("keep")

	select {
	case e := <-sub.Events():
		assert.Equal(t, Removed, e.Type)
		assert.Equal(t, "drop", e.Key)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Removed event")
	}

	_, ok := c.Get("keep")
	assert.True(t, ok)
	_, ok = c.Get("drop")
	assert.False(t, ok)
}

func TestTrimExpiredReturnsCountAndShrinksLen(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", 10*time.Millisecond)
	c.SetPermanent("b", "2")
	time.Sleep(20 * time.Millisecond)

	n := c.TrimExpired()
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, 1, c.Len())
}

// SizeStats classifies without reclaiming.
func TestSizeStatsScenario(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", time.Hour)
	c.Set("b", "2", 10*time.Millisecond)
	c.SetPermanent("c", "3")
	time.Sleep(20 * time.Millisecond)

	stats := c.SizeStats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Valid)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.Permanent)

	// A read-only snapshot: the expired entry is still physically
	// present afterward.
	assert.Equal(t, 3, c.SizeStats().Total)
}

// LRU evicts the least recently used key once capacity is exceeded.
func TestLRUEvictionScenario(t *testing.T) {
	c := New[string](WithMaxEntries[string](2), WithEvictionPolicy[string](eviction.LRU))
	defer c.Dispose()

	c.Set("a", "1", 0)
	c.Set("b", "2", 0)
	c.Get("a") // touch a, so b becomes the least recently used
	c.Set("c", "3", 0)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted as least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

// LFU evicts the least frequently used key. A newly inserted entry
// starts at frequency 1 (the same as any entry that has never been
// read since it was written), so once a has been read twice, b and the
// newly inserted c share the minimum-frequency bucket, and b, the
// older of the two, is evicted.
func TestLFUEvictionScenario(t *testing.T) {
	c := New[string](WithMaxEntries[string](2), WithEvictionPolicy[string](eviction.LFU))
	defer c.Dispose()

	c.Set("a", "1", 0)
	c.Set("b", "2", 0)
	c.Get("a")
	c.Get("a")
	c.Set("c", "3", 0)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was never accessed and should be the LFU eviction candidate")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestOnEvictedInvokedExactlyOncePerDestruction(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	c := New[string](WithOnEvicted[string](func(key string, value string) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))
	defer c.Dispose()

	c.Set("a", "1", 0)
	c.Remove("a")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestMetricsRecordHitsAndMisses(t *testing.T) {
	c := New[string](WithRecordStats[string](true))
	defer c.Dispose()

	c.Set("a", "1", 0)
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Puts)
	assert.InDelta(t, 0.5, stats.HitRatio, 0.0001)
}

func TestGetAllSetAllRemoveAll(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.SetAll(map[string]string{"a": "1", "b": "2", "c": "3"}, 0)
	got := c.GetAll([]string{"a", "b", "missing"})
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)

	c.RemoveAll([]string{"a", "b"})
	assert.False(t, c.ContainsKey("a"))
	assert.False(t, c.ContainsKey("b"))
	assert.True(t, c.ContainsKey("c"))
}

func TestWarmUpAsyncSkipsFailedLoads(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.WarmUpAsync([]string{"a", "bad", "c"}, func(key string) (string, error) {
		if key == "bad" {
			return "", assert.AnError
		}
		return "v:" + key, nil
	}, 0)

	assert.True(t, c.ContainsKey("a"))
	assert.False(t, c.ContainsKey("bad"))
	assert.True(t, c.ContainsKey("c"))
}

func TestDisposeIsIdempotentAndClearsStore(t *testing.T) {
	c := New[string]()
	c.Set("a", "1", 0)

	c.Dispose()
	c.Dispose() // must not panic

	assert.Equal(t, 0, c.Len())
}

func TestConcurrentSetAndGetDoNotRace(t *testing.T) {
	c := New[int](WithMaxEntries[int](50), WithEvictionPolicy[int](eviction.LRU))
	defer c.Dispose()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "k"
			c.Set(key, n, 0)
			c.Get(key)
		}(i)
	}
	wg.Wait()
}
