package cachecore

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStaleLoadsSynchronouslyOnAbsentKey(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	var calls int32
	v, err := c.GetStale("a", func() (string, error) {
		atomic.AddInt32(&calls, 1)
		return "fresh", nil
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cached, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "fresh", cached)
}

func TestGetStaleReturnsFreshValueWithoutRevalidating(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "current", time.Hour)

	var calls int32
	v, err := c.GetStale("a", func() (string, error) {
		atomic.AddInt32(&calls, 1)
		return "new", nil
	}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "current", v)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "a fresh entry must not trigger revalidation")
}

func TestGetStaleServesStaleValueAndRevalidatesInBackground(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "old", 0)
	time.Sleep(15 * time.Millisecond)

	done := make(chan struct{})
	v, err := c.GetStale("a", func() (string, error) {
		defer close(done)
		return "new", nil
	}, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "old", v, "a stale entry returns immediately with the cached value")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("background revalidation never ran")
	}

	require.Eventually(t, func() bool {
		refreshed, ok := c.Get("a")
		return ok && refreshed == "new"
	}, time.Second, time.Millisecond)
}

func TestGetStalePropagatesSynchronousLoadFailure(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	_, err := c.GetStale("missing", func() (string, error) {
		return "", assert.AnError
	}, 0)
	assert.Error(t, err)
	assert.False(t, c.ContainsKey("missing"))
}

func TestStaleWhileRevalidateEnabledReflectsConfig(t *testing.T) {
	plain := New[string]()
	defer plain.Dispose()
	assert.False(t, plain.StaleWhileRevalidateEnabled())

	swr := New[string](WithStaleWhileRevalidate[string](time.Minute))
	defer swr.Dispose()
	assert.True(t, swr.StaleWhileRevalidateEnabled())
}
