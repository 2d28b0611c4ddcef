package cachecore

import (
	"time"

	"go.uber.org/zap"
)

// RevalidateFunc produces a fresh value for the stale-while-revalidate
// protocol.
type RevalidateFunc[V any] func() (V, error)

// StaleWhileRevalidateEnabled reports whether the cache was
// constructed with WithStaleWhileRevalidate. GetStale itself is
// always callable regardless; this just reflects the config flag for
// callers that want to branch on it.
func (c *Cache[V]) StaleWhileRevalidateEnabled() bool {
	return c.config.staleWhileRevalidate
}

func (c *Cache[V]) effectiveStale(staleTTL time.Duration) time.Duration {
	if staleTTL > 0 {
		return staleTTL
	}
	if c.config.hasStaleTime {
		return c.config.staleTime
	}
	if c.config.hasDefaultTTL && c.config.defaultTTL > 0 {
		return c.config.defaultTTL / 2
	}
	return 5 * time.Minute
}

// GetStale implements stale-while-revalidate: a missing or expired
// entry blocks on revalidate and caches the result; a present-but-stale
// entry (age beyond the effective stale threshold) returns immediately
// and kicks off at most one background revalidation per key; a fresh
// entry just returns.
//
// The in-flight table follows the same single-flight discipline as
// LoadingCache, scoped to this Cache instead of shared with it.
func (c *Cache[V]) GetStale(key string, revalidate RevalidateFunc[V], staleTTL time.Duration) (V, error) {
	c.mu.Lock()
	entry, ok := c.data[key]
	now := c.now()
	stillValid := ok && entry.Valid(now)
	c.mu.Unlock()

	if !stillValid {
		v, err, _ := c.revalidating.Do(key, func() (interface{}, error) {
			val, err := revalidate()
			if err != nil {
				return nil, err
			}
			c.Set(key, val, staleTTL)
			return val, nil
		})
		if err != nil {
			var zero V
			return zero, err
		}
		return v.(V), nil
	}

	value := entry.Value()
	if entry.Age(now) > c.effectiveStale(staleTTL) {
		c.spawnRevalidate(key, revalidate, staleTTL)
	}
	return value, nil
}

// spawnRevalidate fires at most one background revalidation per key;
// a revalidation already in flight for key absorbs this call instead
// of starting a second one (singleflight.Group.DoChan's dedup).
func (c *Cache[V]) spawnRevalidate(key string, revalidate RevalidateFunc[V], ttl time.Duration) {
	c.revalidating.DoChan(key, func() (interface{}, error) {
		val, err := revalidate()
		if err != nil {
			c.logger.Warn("stale-while-revalidate background refresh failed",
				zap.String("key", key), zap.Error(err))
			return nil, err
		}
		c.Set(key, val, ttl)
		return val, nil
	})
}
