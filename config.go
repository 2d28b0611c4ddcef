package cachecore

import (
	"time"

	"github.com/Krishna8167/cachecore/eviction"
	"go.uber.org/zap"
)

// OnEvictedFunc is invoked synchronously whenever an entry is
// destroyed, for any reason. It must not call back into the Cache
// that invoked it.
type OnEvictedFunc[V any] func(key string, value V)

// CacheConfig is the configuration bag recognized by New, generalizing
// the teacher's options.go (which only ever set one field: the
// janitor interval) to every knob a Cache can be tuned with.
type CacheConfig[V any] struct {
	defaultTTL            time.Duration
	hasDefaultTTL         bool
	maxEntries            uint64
	hasMaxEntries         bool
	autoTrim              bool
	autoTrimInterval      time.Duration
	evictionPolicy        eviction.Kind
	recordStats           bool
	enableEventStream     bool
	staleWhileRevalidate  bool
	staleTime             time.Duration
	hasStaleTime          bool
	onEvicted             OnEvictedFunc[V]
	logger                *zap.Logger
}

func defaultConfig[V any]() CacheConfig[V] {
	return CacheConfig[V]{
		evictionPolicy:   eviction.LRU,
		autoTrimInterval: time.Minute,
		logger:           zap.NewNop(),
	}
}

// Option configures a CacheConfig, following the teacher's functional
// options pattern (options.go: "type Option func(*Cache)"),
// generalized to act on the config bag that both Cache and Builder
// share.
type Option[V any] func(*CacheConfig[V])

// WithDefaultTTL sets the TTL applied by Set when the caller supplies
// none.
func WithDefaultTTL[V any](ttl time.Duration) Option[V] {
	return func(c *CacheConfig[V]) {
		c.defaultTTL = ttl
		c.hasDefaultTTL = true
	}
}

// WithMaxEntries sets the capacity ceiling enforced after every
// insertion.
func WithMaxEntries[V any](max uint64) Option[V] {
	return func(c *CacheConfig[V]) {
		c.maxEntries = max
		c.hasMaxEntries = true
	}
}

// WithAutoTrim enables the periodic expiration sweep at the given
// interval.
func WithAutoTrim[V any](interval time.Duration) Option[V] {
	return func(c *CacheConfig[V]) {
		c.autoTrim = true
		if interval > 0 {
			c.autoTrimInterval = interval
		}
	}
}

// WithEvictionPolicy selects the eviction discipline.
func WithEvictionPolicy[V any](kind eviction.Kind) Option[V] {
	return func(c *CacheConfig[V]) { c.evictionPolicy = kind }
}

// WithRecordStats installs a Metrics collector.
func WithRecordStats[V any](enabled bool) Option[V] {
	return func(c *CacheConfig[V]) { c.recordStats = enabled }
}

// WithEventStream installs an EventBus.
func WithEventStream[V any](enabled bool) Option[V] {
	return func(c *CacheConfig[V]) { c.enableEventStream = enabled }
}

// WithStaleWhileRevalidate sets the flag reported by
// StaleWhileRevalidateEnabled and optionally overrides GetStale's
// default staleness threshold. GetStale serves stale values whether or
// not the flag is set.
func WithStaleWhileRevalidate[V any](staleTime time.Duration) Option[V] {
	return func(c *CacheConfig[V]) {
		c.staleWhileRevalidate = true
		if staleTime > 0 {
			c.staleTime = staleTime
			c.hasStaleTime = true
		}
	}
}

// WithOnEvicted installs a synchronous destruction callback.
func WithOnEvicted[V any](fn OnEvictedFunc[V]) Option[V] {
	return func(c *CacheConfig[V]) { c.onEvicted = fn }
}

// WithLogger installs a structured logger for diagnostic (never
// correctness-affecting) output. A nil logger is ignored.
func WithLogger[V any](logger *zap.Logger) Option[V] {
	return func(c *CacheConfig[V]) {
		if logger != nil {
			c.logger = logger
		}
	}
}
