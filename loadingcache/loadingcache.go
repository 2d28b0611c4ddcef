// Package loadingcache implements a single-flight loading cache: a
// cachecore.Cache plus an async loader, deduplicating concurrent
// misses so the loader runs at most once per key per miss episode.
package loadingcache

import (
	"context"
	"time"

	"github.com/Krishna8167/cachecore"
	"golang.org/x/sync/singleflight"
)

// Loader produces a value for a cache miss. Grounded on
// other_examples/154a3f22_bingoohuang-loadingcache's LoadFunc, widened
// to take a context (loader invocation is a suspension point that may
// be cancelled) and made generic over V.
type Loader[V any] func(ctx context.Context, key string) (V, error)

// LoadingCache wraps a Cache and a Loader with an in-flight
// deduplication table, following a single-flight discipline.
type LoadingCache[V any] struct {
	inner  *cachecore.Cache[V]
	loader Loader[V]
	group  singleflight.Group
}

// New wraps cache with loader.
func New[V any](cache *cachecore.Cache[V], loader Loader[V]) *LoadingCache[V] {
	return &LoadingCache[V]{inner: cache, loader: loader}
}

// Get returns the cached value, loading it on a miss. Concurrent
// Get calls for the same key during a miss share a single loader
// invocation; a failed load clears the in-flight slot and propagates
// the error without caching anything.
func (l *LoadingCache[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := l.inner.Get(key); ok {
		return v, nil
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		// Re-check: another caller may have populated the key while
		// we were waiting to enter the group.
		if v, ok := l.inner.Get(key); ok {
			return v, nil
		}
		val, err := l.loader(ctx, key)
		if err != nil {
			return nil, err
		}
		l.inner.Set(key, val, 0)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// GetAll fans Get out across keys and merges the results, omitting
// any key whose load failed.
func (l *LoadingCache[V]) GetAll(ctx context.Context, keys []string) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	var firstErr error
	for _, k := range keys {
		v, err := l.Get(ctx, k)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[k] = v
	}
	return out, firstErr
}

// Put bypasses the loader and stores value directly.
func (l *LoadingCache[V]) Put(key string, value V, ttl time.Duration) {
	l.inner.Set(key, value, ttl)
}

// PutAll bypasses the loader for every key/value pair.
func (l *LoadingCache[V]) PutAll(values map[string]V, ttl time.Duration) {
	for k, v := range values {
		l.inner.Set(k, v, ttl)
	}
}

// Invalidate removes key from the inner cache.
func (l *LoadingCache[V]) Invalidate(key string) {
	l.inner.Remove(key)
}

// Refresh invalidates key and forces a reload via Get.
func (l *LoadingCache[V]) Refresh(ctx context.Context, key string) (V, error) {
	l.inner.Remove(key)
	return l.Get(ctx, key)
}

// Cache exposes the wrapped Cache for operations LoadingCache doesn't
// re-expose directly (Keys, Stats, Subscribe, ...).
func (l *LoadingCache[V]) Cache() *cachecore.Cache[V] {
	return l.inner
}
