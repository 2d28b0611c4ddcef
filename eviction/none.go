package eviction

// none disables eviction entirely. Capacity enforcement loops in Cache
// stop immediately when paired with this policy, since Candidate never
// nominates anyone; the cache is then bounded only by memory.
type none struct{}

func newNone() *none { return &none{} }

func (none) OnAccess(string)            {}
func (none) OnAdd(string)               {}
func (none) OnRemove(string)            {}
func (none) Candidate() (string, bool)  { return "", false }
func (none) Clear()                     {}
func (none) Len() int                   { return 0 }
