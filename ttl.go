package cachecore

import "time"

// GetEntry returns the full Entry for key, skipping (and reclaiming)
// expired entries.
func (c *Cache[V]) GetEntry(key string) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return Entry[V]{}, false
	}
	now := c.now()
	if !entry.Valid(now) {
		c.destroy(key, entry, Expired)
		c.metrics.RecordExpiration()
		return Entry[V]{}, false
	}
	return entry, true
}

// TimeToLive returns the remaining TTL for key, or (0, false) if the
// key is absent, expired, or permanent.
func (c *Cache[V]) TimeToLive(key string) (time.Duration, bool) {
	entry, ok := c.GetEntry(key)
	if !ok {
		return 0, false
	}
	return entry.TTLRemaining(c.now())
}

// GetAge returns how long ago key was created, or (0, false) if
// absent or expired.
func (c *Cache[V]) GetAge(key string) (time.Duration, bool) {
	entry, ok := c.GetEntry(key)
	if !ok {
		return 0, false
	}
	return entry.Age(c.now()), true
}

// ExtendTTL pushes out key's expiration by additional. A permanent
// entry becomes timed at now+additional; a timed entry's expiry
// becomes expiresAt+additional. Returns false if key is absent or
// expired.
func (c *Cache[V]) ExtendTTL(key string, additional time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return false
	}
	now := c.now()
	if !entry.Valid(now) {
		c.destroy(key, entry, Expired)
		c.metrics.RecordExpiration()
		return false
	}

	var newExpiry time.Time
	if exp, has := entry.ExpiresAt(); has {
		newExpiry = exp.Add(additional)
	} else {
		newExpiry = now.Add(additional)
	}
	c.data[key] = entry.withExpiresAt(&newExpiry)
	return true
}

// Refresh rebuilds key's entry with a fresh createdAt = now and an
// expiresAt computed from ttl (0 = default TTL, per Set). Returns
// false if key is absent or expired.
func (c *Cache[V]) Refresh(key string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return false
	}
	now := c.now()
	if !entry.Valid(now) {
		c.destroy(key, entry, Expired)
		c.metrics.RecordExpiration()
		return false
	}

	c.data[key] = NewEntry(entry.Value(), now, c.effectiveTTL(ttl))
	return true
}
