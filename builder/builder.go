// Package builder provides a fluent assembler producing either a
// plain cachecore.Cache or a loadingcache.LoadingCache.
//
// It lives in its own package, separate from cachecore, because
// BuildAsync must construct a loadingcache.LoadingCache, and
// loadingcache already imports cachecore to wrap its Cache. Keeping
// Builder in cachecore itself would create an import cycle; hosting
// it one level up, where both collaborators are visible, avoids that
// without changing the shape of the fluent API.
package builder

import (
	"context"
	"time"

	"github.com/Krishna8167/cachecore"
	"github.com/Krishna8167/cachecore/eviction"
	"github.com/Krishna8167/cachecore/loadingcache"
)

// RemovalCause tags why the removal listener was invoked, mirroring
// the RemovalReason enum in other_examples/154a3f22_bingoohuang-loadingcache.
type RemovalCause int

const (
	Explicit RemovalCause = iota
	Replaced
	EvictedCause
	ExpiredCause
	ClearedCause
)

func (c RemovalCause) String() string {
	switch c {
	case Explicit:
		return "explicit"
	case Replaced:
		return "replaced"
	case EvictedCause:
		return "evicted"
	case ExpiredCause:
		return "expired"
	case ClearedCause:
		return "cleared"
	default:
		return "unknown"
	}
}

// RemovalListener is invoked for every entry destruction the built
// cache reports through its event stream, carrying the cause.
type RemovalListener[V any] func(key string, value V, cause RemovalCause)

// Builder accumulates configuration and produces a configured Cache
// or LoadingCache.
type Builder[V any] struct {
	maxSize           uint64
	hasMaxSize        bool
	expireAfterWrite  time.Duration
	expireAfterAccess time.Duration
	policy            eviction.Kind
	recordStats       bool
	removalListener   RemovalListener[V]
	autoTrim          bool
	autoTrimInterval  time.Duration
}

// New constructs an empty Builder with LRU as the default policy.
func New[V any]() *Builder[V] {
	return &Builder[V]{policy: eviction.LRU}
}

// WithMaxSize sets the capacity ceiling.
func (b *Builder[V]) WithMaxSize(max uint64) *Builder[V] {
	b.maxSize = max
	b.hasMaxSize = true
	return b
}

// WithExpireAfterWrite sets the TTL applied from the moment an entry
// is written.
func (b *Builder[V]) WithExpireAfterWrite(d time.Duration) *Builder[V] {
	b.expireAfterWrite = d
	return b
}

// WithExpireAfterAccess is accepted for API parity with the source
// library, but since this cache is write-time-TTL-only, it is folded
// into default_ttl only as a fallback for when WithExpireAfterWrite
// was never called.
func (b *Builder[V]) WithExpireAfterAccess(d time.Duration) *Builder[V] {
	b.expireAfterAccess = d
	return b
}

// WithEvictionPolicy selects the eviction discipline.
func (b *Builder[V]) WithEvictionPolicy(kind eviction.Kind) *Builder[V] {
	b.policy = kind
	return b
}

// WithRecordStats enables the Metrics collector.
func (b *Builder[V]) WithRecordStats() *Builder[V] {
	b.recordStats = true
	return b
}

// WithRemovalListener installs a 3-argument removal callback, fed
// from the built cache's event stream.
func (b *Builder[V]) WithRemovalListener(listener RemovalListener[V]) *Builder[V] {
	b.removalListener = listener
	return b
}

// WithAutoTrim enables the periodic expiration sweep.
func (b *Builder[V]) WithAutoTrim(interval time.Duration) *Builder[V] {
	b.autoTrim = true
	b.autoTrimInterval = interval
	return b
}

func (b *Builder[V]) defaultTTL() (time.Duration, bool) {
	if b.expireAfterWrite > 0 {
		return b.expireAfterWrite, true
	}
	if b.expireAfterAccess > 0 {
		return b.expireAfterAccess, true
	}
	return 0, false
}

func (b *Builder[V]) options() []cachecore.Option[V] {
	var opts []cachecore.Option[V]
	if ttl, ok := b.defaultTTL(); ok {
		opts = append(opts, cachecore.WithDefaultTTL[V](ttl))
	}
	if b.hasMaxSize {
		opts = append(opts, cachecore.WithMaxEntries[V](b.maxSize))
	}
	opts = append(opts, cachecore.WithEvictionPolicy[V](b.policy))
	if b.recordStats {
		opts = append(opts, cachecore.WithRecordStats[V](true))
	}
	if b.autoTrim {
		opts = append(opts, cachecore.WithAutoTrim[V](b.autoTrimInterval))
	}
	if b.removalListener != nil {
		opts = append(opts, cachecore.WithEventStream[V](true))
	}
	return opts
}

// Build produces a configured Cache. If a removal listener was
// registered, a background goroutine relays the cache's event stream
// into it until Dispose is called.
func (b *Builder[V]) Build() *cachecore.Cache[V] {
	c := cachecore.New(b.options()...)
	b.wireRemovalListener(c)
	return c
}

// BuildAsync produces a LoadingCache backed by a Cache configured the
// same way Build would configure one.
func (b *Builder[V]) BuildAsync(loader loadingcache.Loader[V]) *loadingcache.LoadingCache[V] {
	c := cachecore.New(b.options()...)
	b.wireRemovalListener(c)
	return loadingcache.New(c, loader)
}

// BuildSync produces a LoadingCache that caches on first call, backed
// by the same single-flight loading path as BuildAsync: "synchronous"
// describes the loader's signature, not a different caching mechanism,
// mirroring Guava's CacheLoader, which has no separate async/sync
// cache implementation either.
func (b *Builder[V]) BuildSync(syncLoader func(key string) (V, error)) *loadingcache.LoadingCache[V] {
	return b.BuildAsync(func(_ context.Context, key string) (V, error) {
		return syncLoader(key)
	})
}

func (b *Builder[V]) wireRemovalListener(c *cachecore.Cache[V]) {
	if b.removalListener == nil {
		return
	}
	sub, ok := c.Subscribe()
	if !ok {
		return
	}
	go func() {
		for event := range sub.Events() {
			switch event.Type {
			case cachecore.Updated:
				b.removalListener(event.Key, event.PrevValue, Replaced)
			case cachecore.Removed:
				b.removalListener(event.Key, event.Value, Explicit)
			case cachecore.Expired:
				b.removalListener(event.Key, event.Value, ExpiredCause)
			case cachecore.Evicted:
				b.removalListener(event.Key, event.Value, EvictedCause)
			case cachecore.Cleared:
				var zero V
				b.removalListener("", zero, ClearedCause)
			}
		}
	}()
}
