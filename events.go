package cachecore

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType tags the variant a CacheEvent carries.
type EventType int

const (
	Created EventType = iota
	Updated
	Removed
	Expired
	Evicted
	Cleared
)

func (t EventType) String() string {
	switch t {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	case Expired:
		return "expired"
	case Evicted:
		return "evicted"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// CacheEvent is a single lifecycle notification. Key is empty for
// Cleared. Value holds the current value where meaningful; PrevValue
// holds the replaced value for Updated only.
type CacheEvent[V any] struct {
	Type      EventType
	Key       string
	Value     V
	PrevValue V
	HasPrev   bool
	At        time.Time
}

// Subscription is a live handle on an EventBus feed. Events are
// delivered to Events() in commit order until Dispose is called.
type Subscription[V any] struct {
	ID     uuid.UUID
	events chan CacheEvent[V]
	bus    *EventBus[V]
}

// Events returns the channel this subscription receives events on.
func (s *Subscription[V]) Events() <-chan CacheEvent[V] {
	return s.events
}

// Dispose unregisters the subscription. Safe to call more than once.
func (s *Subscription[V]) Dispose() {
	s.bus.unsubscribe(s)
}

// EventBus is a multi-producer/multi-subscriber broadcast of
// CacheEvent values. It has no persistence: a subscriber only sees
// events posted after it subscribes.
type EventBus[V any] struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*Subscription[V]
	closed bool
}

// NewEventBus constructs an empty EventBus.
func NewEventBus[V any]() *EventBus[V] {
	return &EventBus[V]{subs: make(map[uuid.UUID]*Subscription[V])}
}

// Subscribe registers a new subscriber with a buffered channel, so a
// slow subscriber cannot block the publisher indefinitely on a single
// event; buffer overflow drops the event for that subscriber. Fan-out
// is best-effort broadcast, not a durable log.
func (b *EventBus[V]) Subscribe() *Subscription[V] {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &Subscription[V]{
		ID:     uuid.New(),
		events: make(chan CacheEvent[V], 64),
		bus:    b,
	}
	b.subs[sub.ID] = sub
	return sub
}

func (b *EventBus[V]) unsubscribe(sub *Subscription[V]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub.ID]; !ok {
		return
	}
	delete(b.subs, sub.ID)
	close(sub.events)
}

// Publish broadcasts event to every currently registered subscriber.
func (b *EventBus[V]) Publish(event CacheEvent[V]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		select {
		case sub.events <- event:
		default:
			// Slow subscriber; drop rather than block the publisher.
		}
	}
}

// Close disposes every subscription and marks the bus closed;
// subsequent Publish calls are no-ops. Called by Cache.Dispose.
func (b *EventBus[V]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.events)
	}
	b.subs = make(map[uuid.UUID]*Subscription[V])
}

// WhereType filters a subscription's event channel down to the given
// types, running in its own goroutine until src closes.
func WhereType[V any](src <-chan CacheEvent[V], types ...EventType) <-chan CacheEvent[V] {
	want := make(map[EventType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	return filter(src, func(e CacheEvent[V]) bool { return want[e.Type] })
}

// WhereKey filters to events for an exact key.
func WhereKey[V any](src <-chan CacheEvent[V], key string) <-chan CacheEvent[V] {
	return filter(src, func(e CacheEvent[V]) bool { return e.Key == key })
}

// WhereKeyPrefix filters to events whose key starts with prefix.
func WhereKeyPrefix[V any](src <-chan CacheEvent[V], prefix string) <-chan CacheEvent[V] {
	return filter(src, func(e CacheEvent[V]) bool { return strings.HasPrefix(e.Key, prefix) })
}

// Additions filters to Created and Updated events.
func Additions[V any](src <-chan CacheEvent[V]) <-chan CacheEvent[V] {
	return WhereType(src, Created, Updated)
}

// Removals filters to explicit Removed and Cleared events.
func Removals[V any](src <-chan CacheEvent[V]) <-chan CacheEvent[V] {
	return WhereType(src, Removed, Cleared)
}

// Expirations filters to Expired events.
func Expirations[V any](src <-chan CacheEvent[V]) <-chan CacheEvent[V] {
	return WhereType(src, Expired)
}

// Evictions filters to Evicted events.
func Evictions[V any](src <-chan CacheEvent[V]) <-chan CacheEvent[V] {
	return WhereType(src, Evicted)
}

func filter[V any](src <-chan CacheEvent[V], keep func(CacheEvent[V]) bool) <-chan CacheEvent[V] {
	out := make(chan CacheEvent[V])
	go func() {
		defer close(out)
		for e := range src {
			if keep(e) {
				out <- e
			}
		}
	}()
	return out
}
