// Package arena stores tree nodes in a flat slice and hands out index
// handles guarded by a generation counter.
package arena

// None marks an absent link.
const None = -1

type slot[N any] struct {
	node N
	gen  uint32
	used bool
}

// Arena is a slot store for nodes of type N. Freed slots are reused; each
// reuse carries a new generation so stale handles can be detected.
type Arena[N any] struct {
	slots []slot[N]
	free  []int
	live  int
}

// Alloc stores node and returns its index and generation.
func (a *Arena[N]) Alloc(node N) (int, uint32) {
	a.live++
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[id]
		s.node = node
		s.used = true
		return id, s.gen
	}
	a.slots = append(a.slots, slot[N]{node: node, used: true})
	return len(a.slots) - 1, 0
}

// Valid reports whether id refers to a live slot of generation gen.
func (a *Arena[N]) Valid(id int, gen uint32) bool {
	if id < 0 || id >= len(a.slots) {
		return false
	}
	s := &a.slots[id]
	return s.used && s.gen == gen
}

// Gen returns the current generation of a live slot.
func (a *Arena[N]) Gen(id int) uint32 {
	return a.slots[id].gen
}

// At returns the node stored at id. The caller must know id is live.
func (a *Arena[N]) At(id int) *N {
	return &a.slots[id].node
}

// Get returns the node for a handle, or false if the handle is stale.
func (a *Arena[N]) Get(id int, gen uint32) (*N, bool) {
	if !a.Valid(id, gen) {
		return nil, false
	}
	return &a.slots[id].node, true
}

// Free releases id. Freeing an unused slot is a no-op.
func (a *Arena[N]) Free(id int) {
	if id < 0 || id >= len(a.slots) || !a.slots[id].used {
		return
	}
	s := &a.slots[id]
	var zero N
	s.node = zero
	s.used = false
	s.gen++
	a.free = append(a.free, id)
	a.live--
}

// Len returns the number of live slots.
func (a *Arena[N]) Len() int {
	return a.live
}
