// Package tieredcache implements two-tier L1/L2 orchestration: an
// in-memory Cache (L1) fronting a Store (L2), with write-through and
// read-promotion semantics.
package tieredcache

import (
	"context"
	"time"

	"github.com/Krishna8167/cachecore"
	"github.com/Krishna8167/cachecore/store"
)

// Option configures a TieredCache at construction.
type Option func(*options)

type options struct {
	writeThrough    bool
	promoteOnAccess bool
}

// WithWriteThrough overrides the default (true): whether Set also
// writes to L2.
func WithWriteThrough(enabled bool) Option {
	return func(o *options) { o.writeThrough = enabled }
}

// WithPromoteOnAccess overrides the default (true): whether an L2 hit
// is lifted into L1.
func WithPromoteOnAccess(enabled bool) Option {
	return func(o *options) { o.promoteOnAccess = enabled }
}

// TieredCache composes an L1 Cache and an L2 Store behind a single
// Cache-shaped API.
type TieredCache[V any] struct {
	l1   *cachecore.Cache[V]
	l2   store.Store[V]
	opts options
}

// New wires l1 in front of l2.
func New[V any](l1 *cachecore.Cache[V], l2 store.Store[V], opts ...Option) *TieredCache[V] {
	o := options{writeThrough: true, promoteOnAccess: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &TieredCache[V]{l1: l1, l2: l2, opts: o}
}

// Get tries L1 first; on an L1 miss it reads L2, reclaiming an
// expired L2 entry as a miss, and, when promote_on_access is set,
// lifting a valid L2 hit into L1 with its remaining TTL preserved.
func (t *TieredCache[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := t.l1.Get(key); ok {
		return v, nil
	}

	entry, ok, err := t.l2.Get(ctx, key)
	if err != nil {
		// An L2 failure degrades to a miss rather than surfacing; L1
		// already missed by this point, so there is nothing to demote.
		var zero V
		return zero, nil
	}
	if !ok {
		var zero V
		return zero, nil
	}

	now := time.Now()
	if !entry.Valid(now) {
		_ = t.l2.Remove(ctx, key)
		var zero V
		return zero, nil
	}

	if t.opts.promoteOnAccess {
		ttl, hasTTL := entry.TTLRemaining(now)
		if hasTTL {
			t.l1.Set(key, entry.Value, ttl)
		} else {
			t.l1.SetPermanent(key, entry.Value)
		}
	}
	return entry.Value, nil
}

// Set always writes to L1; when write_through is set, it also writes
// an equivalent Entry to L2 and surfaces any L2 failure to the caller.
// The L1 write has already committed by then regardless.
func (t *TieredCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	t.l1.Set(key, value, ttl)
	if !t.opts.writeThrough {
		return nil
	}
	return t.l2.Put(ctx, key, toStoreEntry(t.l1, key, value, ttl))
}

func toStoreEntry[V any](l1 *cachecore.Cache[V], key string, value V, ttl time.Duration) store.Entry[V] {
	entry, ok := l1.GetEntry(key)
	if !ok {
		// Fell out of L1 already (e.g. evicted by a racing Set on a
		// tiny-capacity cache); fabricate a createdAt from now so L2
		// still gets a usable record.
		now := time.Now()
		var expiresAt *time.Time
		if ttl > 0 {
			exp := now.Add(ttl)
			expiresAt = &exp
		}
		return store.Entry[V]{Value: value, CreatedAt: now, ExpiresAt: expiresAt}
	}
	createdAt := entry.CreatedAt()
	var expiresAt *time.Time
	if exp, has := entry.ExpiresAt(); has {
		expiresAt = &exp
	}
	return store.Entry[V]{Value: entry.Value(), CreatedAt: createdAt, ExpiresAt: expiresAt}
}

// Remove deletes key from both layers.
func (t *TieredCache[V]) Remove(ctx context.Context, key string) error {
	t.l1.Remove(key)
	return t.l2.Remove(ctx, key)
}

// Clear clears both layers.
func (t *TieredCache[V]) Clear(ctx context.Context) error {
	t.l1.Clear()
	return t.l2.Clear(ctx)
}

// Keys returns the union of L1 and L2 keys.
func (t *TieredCache[V]) Keys(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, k := range t.l1.Keys() {
		seen[k] = struct{}{}
	}
	l2Keys, err := t.l2.Keys(ctx)
	if err != nil {
		return nil, err
	}
	for _, k := range l2Keys {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out, nil
}

// FlushL1ToL2 writes every L1 entry's current value into L2, then
// clears L1.
func (t *TieredCache[V]) FlushL1ToL2(ctx context.Context) error {
	for _, key := range t.l1.Keys() {
		entry, ok := t.l1.GetEntry(key)
		if !ok {
			continue
		}
		var expiresAt *time.Time
		if exp, has := entry.ExpiresAt(); has {
			expiresAt = &exp
		}
		se := store.Entry[V]{Value: entry.Value(), CreatedAt: entry.CreatedAt(), ExpiresAt: expiresAt}
		if err := t.l2.Put(ctx, key, se); err != nil {
			return err
		}
	}
	t.l1.Clear()
	return nil
}

// WarmUpL1 reads each of keys from L2 and, if present and valid,
// inserts it into L1 with its remaining TTL preserved.
func (t *TieredCache[V]) WarmUpL1(ctx context.Context, keys []string) error {
	now := time.Now()
	for _, key := range keys {
		entry, ok, err := t.l2.Get(ctx, key)
		if err != nil {
			return err
		}
		if !ok || !entry.Valid(now) {
			continue
		}
		if ttl, has := entry.TTLRemaining(now); has {
			t.l1.Set(key, entry.Value, ttl)
		} else {
			t.l1.SetPermanent(key, entry.Value)
		}
	}
	return nil
}
