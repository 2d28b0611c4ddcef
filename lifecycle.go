package cachecore

// Subscribe registers a new event subscription. It returns (nil,
// false) if the cache was constructed without WithEventStream(true).
func (c *Cache[V]) Subscribe() (*Subscription[V], bool) {
	if c.events == nil {
		return nil, false
	}
	return c.events.Subscribe(), true
}

// Stats returns a point-in-time snapshot of the cache's metrics. If
// the cache was constructed without WithRecordStats(true), every
// field is zero.
func (c *Cache[V]) Stats() Stats {
	return c.metrics.Snapshot()
}

// SizeStats summarizes the store's entry population: total, valid,
// expired, and permanent counts.
type SizeStats struct {
	Total     int
	Valid     int
	Expired   int
	Permanent int
}

// SizeStats scans the store and classifies every entry, without
// reclaiming expired ones (a read-only snapshot, unlike Len/Keys).
func (c *Cache[V]) SizeStats() SizeStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := SizeStats{Total: len(c.data)}
	for _, e := range c.data {
		if e.Valid(now) {
			stats.Valid++
		} else {
			stats.Expired++
		}
		if e.IsPermanent() {
			stats.Permanent++
		}
	}
	return stats
}

// Dispose stops the janitor, closes the event bus, and clears the
// store. Safe to call more than once; a second call is a no-op.
func (c *Cache[V]) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	stop := c.janitorStop
	c.data = make(map[string]Entry[V])
	c.policy.Clear()
	c.mu.Unlock()

	if stop != nil {
		close(stop)
		<-c.janitorDone
	}
	if c.events != nil {
		c.events.Close()
	}
}
