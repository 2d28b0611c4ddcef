// Package namespacedcache implements a key-prefixing wrapper: every
// NamespaceView operation prefixes its key with "<name>::" before
// delegating to the shared underlying Cache.
package namespacedcache

import (
	"strings"
	"sync"
	"time"

	"github.com/Krishna8167/cachecore"
)

const separator = cachecore.PathSeparator

// NamespacedCache wraps a Cache with a namespace discipline. Views
// are memoized so repeated calls to Namespace(name) return the same
// instance.
type NamespacedCache[V any] struct {
	inner *cachecore.Cache[V]

	mu   sync.Mutex
	views map[string]*NamespaceView[V]
}

// New wraps cache with namespacing.
func New[V any](cache *cachecore.Cache[V]) *NamespacedCache[V] {
	return &NamespacedCache[V]{inner: cache, views: make(map[string]*NamespaceView[V])}
}

// Namespace returns (and memoizes) the view for name. Nested
// namespaces compose by passing a name that itself contains "::",
// e.g. Namespace("users::profiles").
func (n *NamespacedCache[V]) Namespace(name string) *NamespaceView[V] {
	n.mu.Lock()
	defer n.mu.Unlock()
	if v, ok := n.views[name]; ok {
		return v
	}
	v := &NamespaceView[V]{cache: n.inner, prefix: name + separator}
	n.views[name] = v
	return v
}

// Cache exposes the wrapped Cache for unprefixed operations.
func (n *NamespacedCache[V]) Cache() *cachecore.Cache[V] {
	return n.inner
}

// NamespaceView is a scoped view over a NamespacedCache: every key it
// accepts or returns is transparently prefixed/stripped with this
// view's namespace prefix.
type NamespaceView[V any] struct {
	cache  *cachecore.Cache[V]
	prefix string
}

func (v *NamespaceView[V]) key(key string) string {
	return v.prefix + key
}

// Get returns the value stored under key within this namespace.
func (v *NamespaceView[V]) Get(key string) (V, bool) {
	return v.cache.Get(v.key(key))
}

// Set stores value under key within this namespace.
func (v *NamespaceView[V]) Set(key string, value V, ttl time.Duration) {
	v.cache.Set(v.key(key), value, ttl)
}

// SetPermanent stores value under key within this namespace with no
// expiration.
func (v *NamespaceView[V]) SetPermanent(key string, value V) {
	v.cache.SetPermanent(v.key(key), value)
}

// ContainsKey reports whether key has a valid mapping in this
// namespace.
func (v *NamespaceView[V]) ContainsKey(key string) bool {
	return v.cache.ContainsKey(v.key(key))
}

// Remove deletes key's mapping within this namespace.
func (v *NamespaceView[V]) Remove(key string) (V, bool) {
	return v.cache.Remove(v.key(key))
}

// Keys enumerates every key in this namespace, with the namespace
// prefix stripped from each.
func (v *NamespaceView[V]) Keys() []string {
	prefixed := v.cache.KeysWithPrefix(v.prefix)
	out := make([]string, 0, len(prefixed))
	for _, k := range prefixed {
		out = append(out, strings.TrimPrefix(k, v.prefix))
	}
	return out
}

// Len returns the number of keys in this namespace.
func (v *NamespaceView[V]) Len() int {
	return len(v.cache.KeysWithPrefix(v.prefix))
}

// Clear removes every key in the underlying cache that starts with
// this namespace's prefix, leaving every other namespace (and the
// unprefixed cache) untouched.
func (v *NamespaceView[V]) Clear() {
	v.cache.RemoveWithPrefix(v.prefix)
}
