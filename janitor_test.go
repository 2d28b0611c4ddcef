package cachecore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutoTrimReclaimsExpiredEntriesInBackground(t *testing.T) {
	c := New[string](WithAutoTrim[string](10 * time.Millisecond))
	defer c.Dispose()

	c.Set("a", "1", 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		stats := c.SizeStats()
		return stats.Total == 0
	}, time.Second, 5*time.Millisecond, "janitor should have swept the expired entry on its own")
}

func TestWithoutAutoTrimEntryStaysPhysicallyPresentUntilSwept(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.Set("a", "1", 5*time.Millisecond)
	time.Sleep(15 * time.Millisecond)

	stats := c.SizeStats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Expired)

	_, ok := c.Get("a")
	assert.False(t, ok)
}
