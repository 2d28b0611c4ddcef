package cachecore

import (
	"sync"
	"time"

	"github.com/Krishna8167/cachecore/eviction"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache is the engine: a string-keyed map of Entry[V], a pluggable
// eviction.Policy, and optional Metrics/EventBus collaborators. It
// generalizes the teacher's hash-map-plus-container/list Cache to an
// arbitrary eviction discipline and a single static value type V.
//
// All state-mutating operations run under a single exclusive mutex:
// the entry map, the policy, and the metrics counters are all
// cache-private and serialized together, exactly as the teacher's
// cache.go already did by taking a full Lock() even inside Get (since
// Get also reorders the LRU list and updates stats). The revalidation
// single-flight table is cache-private too, but is guarded by its own
// lock rather than by mu.
type Cache[V any] struct {
	mu     sync.Mutex
	data   map[string]Entry[V]
	policy eviction.Policy
	metrics Metrics
	events  *EventBus[V]
	config  CacheConfig[V]
	logger  *zap.Logger

	revalidating singleflight.Group

	janitorStop chan struct{}
	janitorDone chan struct{}
	disposed    bool
}

// New constructs a Cache with the given options applied over the
// defaults (LRU eviction, no capacity limit, no default TTL, stats
// and events disabled).
func New[V any](opts ...Option[V]) *Cache[V] {
	cfg := defaultConfig[V]()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Cache[V]{
		data:   make(map[string]Entry[V]),
		policy: eviction.New(cfg.evictionPolicy),
		config: cfg,
		logger: cfg.logger,
	}

	if cfg.recordStats {
		c.metrics = NewMetrics()
	} else {
		c.metrics = NewDisabledMetrics()
	}
	if cfg.enableEventStream {
		c.events = NewEventBus[V]()
	}

	c.startJanitor()
	return c
}

func (c *Cache[V]) now() time.Time { return time.Now() }

func (c *Cache[V]) publish(event CacheEvent[V]) {
	if c.events != nil {
		c.events.Publish(event)
	}
}

// destroy removes key's entry (already located by the caller, which
// must hold c.mu), notifying the policy, invoking on_evicted, and
// publishing the event named by eventType. It is the single choke
// point that guarantees on_evicted fires exactly once per destroyed
// entry, no matter which caller triggered the destruction.
func (c *Cache[V]) destroy(key string, entry Entry[V], eventType EventType) {
	delete(c.data, key)
	c.policy.OnRemove(key)
	if c.config.onEvicted != nil {
		c.config.onEvicted(key, entry.Value())
	}
	c.publish(CacheEvent[V]{Type: eventType, Key: key, Value: entry.Value(), At: c.now()})
}

// Get returns the value stored at key. A missing or expired mapping
// is a miss, not an error; an expired mapping is reclaimed and emits
// Expired before returning.
func (c *Cache[V]) Get(key string) (V, bool) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		c.metrics.RecordMiss()
		c.metrics.RecordGetLatency(time.Since(start))
		var zero V
		return zero, false
	}

	now := c.now()
	if !entry.Valid(now) {
		c.destroy(key, entry, Expired)
		c.metrics.RecordExpiration()
		c.metrics.RecordMiss()
		c.metrics.RecordGetLatency(time.Since(start))
		var zero V
		return zero, false
	}

	c.policy.OnAccess(key)
	c.metrics.RecordHit()
	c.metrics.RecordGetLatency(time.Since(start))
	return entry.Value(), true
}

// GetOr returns the cached value, or def if absent/expired.
func (c *Cache[V]) GetOr(key string, def V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	return def
}

// GetOrSet returns the cached value, or computes it via compute,
// stores it with ttl (0 = default TTL), and returns it. It is NOT
// single-flight: concurrent misses on the same key may each invoke
// compute (use LoadingCache for dedup).
func (c *Cache[V]) GetOrSet(key string, compute func() V, ttl time.Duration) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Set(key, v, ttl)
	return v
}

// GetOrSetAsync is the async-loader sibling of GetOrSet. It suspends
// at the compute boundary but is otherwise identical: not single-flight.
func (c *Cache[V]) GetOrSetAsync(key string, compute func() (V, error), ttl time.Duration) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

func (c *Cache[V]) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	if c.config.hasDefaultTTL {
		return c.config.defaultTTL
	}
	return 0
}

// Set inserts or replaces key's mapping. ttl of 0 falls back to the
// configured default TTL, if any; otherwise the entry is permanent.
// Replacing emits Updated(prev); inserting emits Created. After the
// insert, capacity is enforced.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, c.effectiveTTL(ttl))
	c.metrics.RecordPut(time.Since(start))
}

// SetPermanent inserts or replaces key's mapping with no expiration.
func (c *Cache[V]) SetPermanent(key string, value V) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPermanentLocked(key, value)
	c.metrics.RecordPut(time.Since(start))
}

func (c *Cache[V]) setLocked(key string, value V, ttl time.Duration) {
	now := c.now()
	entry := NewEntry(value, now, ttl)
	c.insertLocked(key, entry)
}

func (c *Cache[V]) setPermanentLocked(key string, value V) {
	entry := NewPermanentEntry(value, c.now())
	c.insertLocked(key, entry)
}

func (c *Cache[V]) insertLocked(key string, entry Entry[V]) {
	prev, existed := c.data[key]
	c.data[key] = entry
	c.policy.OnAdd(key)

	if existed {
		c.publish(CacheEvent[V]{
			Type: Updated, Key: key, Value: entry.Value(),
			PrevValue: prev.Value(), HasPrev: true, At: c.now(),
		})
	} else {
		c.publish(CacheEvent[V]{Type: Created, Key: key, Value: entry.Value(), At: c.now()})
	}

	c.enforceCapacityLocked()
}

// enforceCapacityLocked evicts entries while the store exceeds
// max_entries. It compares against total mapping size including
// expired-but-unswept entries, so a burst of writes that outruns the
// janitor still respects the configured ceiling.
func (c *Cache[V]) enforceCapacityLocked() {
	if !c.config.hasMaxEntries {
		return
	}
	for uint64(len(c.data)) > c.config.maxEntries {
		victim, ok := c.policy.Candidate()
		if !ok {
			return
		}
		entry, ok := c.data[victim]
		if !ok {
			// Policy and store disagree; drop the stale bookkeeping
			// entry and keep going rather than loop forever.
			c.policy.OnRemove(victim)
			continue
		}
		c.destroy(victim, entry, Evicted)
		c.metrics.RecordEviction()
	}
}

// ContainsKey reports whether key has a valid mapping. An expired
// mapping is reclaimed as a side effect, but unlike Get this does not
// record a metrics miss.
func (c *Cache[V]) ContainsKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return false
	}
	if !entry.Valid(c.now()) {
		c.destroy(key, entry, Expired)
		c.metrics.RecordExpiration()
		return false
	}
	return true
}

// Remove deletes key's mapping if present, returning its value.
func (c *Cache[V]) Remove(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.destroy(key, entry, Removed)
	c.metrics.RecordRemove()
	return entry.Value(), true
}
