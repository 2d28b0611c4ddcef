// Package eviction implements the cache's pluggable eviction disciplines.
//
// A Policy is pure bookkeeping: it never touches the entry store itself.
// Cache tells a Policy about accesses and insertions, and asks it to
// nominate a victim when capacity is exceeded. Every variant keeps its
// own index of keys in whatever order its discipline requires.
package eviction

// Kind selects one of the four eviction disciplines a Cache can be
// configured with.
type Kind int

const (
	// LRU evicts the least recently used key.
	LRU Kind = iota
	// LFU evicts the least frequently used key, ties broken by
	// insertion order.
	LFU
	// FIFO evicts in insertion order, regardless of access pattern. A
	// key removed and re-added keeps its earlier queue position while
	// its stale queue entry has not been discarded.
	FIFO
	// None never nominates a victim; capacity enforcement becomes a
	// no-op under this policy.
	None
)

func (k Kind) String() string {
	switch k {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	case FIFO:
		return "fifo"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// Policy is the bookkeeping capability a Cache delegates eviction
// decisions to. Implementations are not safe for concurrent use by
// multiple goroutines; the owning Cache is responsible for
// serializing calls the way it serializes its own state.
type Policy interface {
	// OnAccess records a read of key. LFU and LRU use this to update
	// recency/frequency; FIFO and None ignore it.
	OnAccess(key string)
	// OnAdd records a new mapping for key. Re-adding a key the policy
	// already tracks must not duplicate its bookkeeping entry.
	OnAdd(key string)
	// OnRemove drops key from the policy's bookkeeping, regardless of
	// why the key left the store.
	OnRemove(key string)
	// Candidate nominates a key to evict, or returns ("", false) if
	// the policy has nothing to offer (always the case for None).
	Candidate() (string, bool)
	// Clear discards all bookkeeping state.
	Clear()
	// Len reports how many keys the policy is currently tracking.
	Len() int
}

// New constructs the Policy implementation for kind.
func New(kind Kind) Policy {
	switch kind {
	case LFU:
		return newLFU()
	case FIFO:
		return newFIFO()
	case None:
		return newNone()
	case LRU:
		fallthrough
	default:
		return newLRU()
	}
}
