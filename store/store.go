// Package store implements the persistence abstraction used as the
// cache's L2 layer: an in-memory variant and a file-per-entry variant
// behind the same contract.
package store

import (
	"context"
	"errors"
	"time"
)

// Errors of the store package. FileStore wraps ErrStoreIO around I/O
// failures. ErrCorrupt names an unreadable persisted entry; FileStore
// self-heals such an entry by deleting the offending file and
// reporting a miss, so its Get does not return ErrCorrupt.
var (
	ErrStoreIO = errors.New("store: io failed")
	ErrCorrupt = errors.New("store: corrupt entry")
)

// Entry is the persisted shape of a cache entry: a value plus its
// creation and (optional) expiration time. It mirrors cachecore.Entry
// but lives here, dependency-free, so store doesn't import the
// engine package.
type Entry[V any] struct {
	Value     V
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Valid reports whether the entry has not expired as of now.
func (e Entry[V]) Valid(now time.Time) bool {
	return e.ExpiresAt == nil || now.Before(*e.ExpiresAt)
}

// TTLRemaining returns the time left before expiry and true, or
// (0, false) if the entry is permanent. It never returns a negative
// duration; an already-expired entry reports (0, true).
func (e Entry[V]) TTLRemaining(now time.Time) (time.Duration, bool) {
	if e.ExpiresAt == nil {
		return 0, false
	}
	remaining := e.ExpiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Store is the abstract persistence interface for a cache's L2 layer.
// Every operation is fallible and takes a context: all operations are
// asynchronous and can return an error.
type Store[V any] interface {
	Put(ctx context.Context, key string, entry Entry[V]) error
	Get(ctx context.Context, key string) (Entry[V], bool, error)
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	ContainsKey(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}
