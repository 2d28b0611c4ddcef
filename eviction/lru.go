package eviction

import "container/list"

// lru maintains keys in strict access order using a doubly linked list,
// exactly as the teacher's cache.go did inline before eviction became
// pluggable: a map gives O(1) lookup of the list element for a key, and
// the list itself gives O(1) move-to-front/back-eviction.
type lru struct {
	ll    *list.List
	elems map[string]*list.Element
}

func newLRU() *lru {
	return &lru{
		ll:    list.New(),
		elems: make(map[string]*list.Element),
	}
}

func (p *lru) OnAccess(key string) {
	elem, ok := p.elems[key]
	if !ok {
		return
	}
	p.ll.MoveToFront(elem)
}

func (p *lru) OnAdd(key string) {
	if elem, ok := p.elems[key]; ok {
		p.ll.MoveToFront(elem)
		return
	}
	elem := p.ll.PushFront(key)
	p.elems[key] = elem
}

func (p *lru) OnRemove(key string) {
	elem, ok := p.elems[key]
	if !ok {
		return
	}
	p.ll.Remove(elem)
	delete(p.elems, key)
}

func (p *lru) Candidate() (string, bool) {
	elem := p.ll.Back()
	if elem == nil {
		return "", false
	}
	return elem.Value.(string), true
}

func (p *lru) Clear() {
	p.ll.Init()
	p.elems = make(map[string]*list.Element)
}

func (p *lru) Len() int {
	return p.ll.Len()
}
