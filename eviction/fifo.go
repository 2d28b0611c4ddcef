package eviction

import "container/list"

// fifo evicts in insertion order, ignoring access pattern entirely.
// The queue can accumulate stale entries for keys that were removed
// without yet being evicted; Candidate lazily discards them. A key
// that is removed and re-added while its stale entry is still queued
// is not queued again, so it is nominated from that earlier position,
// ahead of keys first inserted after it.
type fifo struct {
	queue  *list.List
	member map[string]bool
}

func newFIFO() *fifo {
	return &fifo{
		queue:  list.New(),
		member: make(map[string]bool),
	}
}

func (p *fifo) OnAccess(string) {}

func (p *fifo) OnAdd(key string) {
	if p.member[key] {
		return
	}
	p.member[key] = true
	p.queue.PushBack(key)
}

func (p *fifo) OnRemove(key string) {
	delete(p.member, key)
}

func (p *fifo) Candidate() (string, bool) {
	for {
		front := p.queue.Front()
		if front == nil {
			return "", false
		}
		key := front.Value.(string)
		if p.member[key] {
			return key, true
		}
		p.queue.Remove(front)
	}
}

func (p *fifo) Clear() {
	p.queue.Init()
	p.member = make(map[string]bool)
}

func (p *fifo) Len() int {
	return len(p.member)
}
