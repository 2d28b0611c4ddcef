package cachecore

import "time"

// sweepExpiredLocked scans the whole store for expired entries and
// destroys them, emitting Expired + invoking on_evicted for each. The
// caller must already hold c.mu. Returns the number reclaimed.
func (c *Cache[V]) sweepExpiredLocked(now time.Time) uint64 {
	var victims []string
	for k, e := range c.data {
		if !e.Valid(now) {
			victims = append(victims, k)
		}
	}
	for _, k := range victims {
		entry := c.data[k]
		c.destroy(k, entry, Expired)
		c.metrics.RecordExpiration()
	}
	return uint64(len(victims))
}

// TrimExpired scans the entire store for expired entries, removes
// them, and returns the count removed.
func (c *Cache[V]) TrimExpired() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepExpiredLocked(c.now())
}

// Keys returns every currently valid key, first sweeping expired
// entries so the result excludes them.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepExpiredLocked(c.now())

	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of currently valid entries, sweeping expired
// entries first.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepExpiredLocked(c.now())
	return len(c.data)
}

// IsEmpty reports whether the cache holds no valid entries.
func (c *Cache[V]) IsEmpty() bool {
	return c.Len() == 0
}

// IsNotEmpty reports whether the cache holds at least one valid entry.
func (c *Cache[V]) IsNotEmpty() bool {
	return !c.IsEmpty()
}

// Clear removes every entry except those whose key is in preserve.
// With an empty/absent preserve set, a single Cleared event is
// emitted instead of one Removed per entry; with a non-empty preserve
// set, each removed entry still emits its own Removed event.
// on_evicted fires for every removed entry either way.
func (c *Cache[V]) Clear(preserve ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(preserve) == 0 {
		if len(c.data) == 0 {
			return
		}
		for k, entry := range c.data {
			delete(c.data, k)
			if c.config.onEvicted != nil {
				c.config.onEvicted(k, entry.Value())
			}
		}
		c.policy.Clear()
		c.publish(CacheEvent[V]{Type: Cleared, At: c.now()})
		return
	}

	keep := make(map[string]bool, len(preserve))
	for _, k := range preserve {
		keep[k] = true
	}
	var victims []string
	for k := range c.data {
		if !keep[k] {
			victims = append(victims, k)
		}
	}
	for _, k := range victims {
		entry := c.data[k]
		c.destroy(k, entry, Removed)
		c.metrics.RecordRemove()
	}
}

// ClearWhere removes every valid entry matching predicate.
func (c *Cache[V]) ClearWhere(predicate func(key string, value V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var victims []string
	for k, e := range c.data {
		if e.Valid(now) && predicate(k, e.Value()) {
			victims = append(victims, k)
		}
	}
	for _, k := range victims {
		entry := c.data[k]
		c.destroy(k, entry, Removed)
		c.metrics.RecordRemove()
	}
}

// GetAll fans out Get across keys, returning only the hits.
func (c *Cache[V]) GetAll(keys []string) map[string]V {
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		if v, ok := c.Get(k); ok {
			out[k] = v
		}
	}
	return out
}

// SetAll fans out Set across every key/value pair with a shared ttl
// (0 = default TTL).
func (c *Cache[V]) SetAll(values map[string]V, ttl time.Duration) {
	for k, v := range values {
		c.Set(k, v, ttl)
	}
}

// RemoveAll fans out Remove across keys.
func (c *Cache[V]) RemoveAll(keys []string) {
	for _, k := range keys {
		c.Remove(k)
	}
}
