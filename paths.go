package cachecore

import (
	"strings"
	"time"
)

// PathSeparator is the literal segment separator for path-keys. It is
// a contract, not an implementation detail: keys containing "::" typed
// directly by a caller share the same flat namespace as keys produced
// by joining path segments, so collisions are not silently escaped.
const PathSeparator = "::"

// JoinPath composes segments into a single flat key. An empty segment
// list joins to the empty string.
func JoinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}

// GetPath looks up the key formed by joining segments. An empty path
// is a no-op read, returning a miss.
func (c *Cache[V]) GetPath(segments ...string) (V, bool) {
	key := JoinPath(segments...)
	if key == "" {
		var zero V
		return zero, false
	}
	return c.Get(key)
}

// SetPath stores value at the key formed by joining segments. An
// empty path is a silent no-op write.
func (c *Cache[V]) SetPath(value V, ttl time.Duration, segments ...string) {
	key := JoinPath(segments...)
	if key == "" {
		return
	}
	c.Set(key, value, ttl)
}

// ContainsPath reports whether the joined path key has a valid
// mapping.
func (c *Cache[V]) ContainsPath(segments ...string) bool {
	key := JoinPath(segments...)
	if key == "" {
		return false
	}
	return c.ContainsKey(key)
}

// RemovePath removes the mapping at the joined path key.
func (c *Cache[V]) RemovePath(segments ...string) (V, bool) {
	key := JoinPath(segments...)
	if key == "" {
		var zero V
		return zero, false
	}
	return c.Remove(key)
}

// KeysWithPrefix returns every valid key starting with prefix. Like
// Keys, it sweeps expired entries first.
func (c *Cache[V]) KeysWithPrefix(prefix string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepExpiredLocked(c.now())

	var out []string
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

// RemoveWithPrefix removes every key starting with prefix, emitting
// one Removed event per affected entry, and returns the count
// removed.
func (c *Cache[V]) RemoveWithPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var victims []string
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			victims = append(victims, k)
		}
	}
	for _, k := range victims {
		entry := c.data[k]
		c.destroy(k, entry, Removed)
		c.metrics.RecordRemove()
	}
	return len(victims)
}
