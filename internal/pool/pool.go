// Package pool provides fixed-capacity slot arenas for game entities.
//
// Slots are allocated first-fit and never grow. A slot is live exactly while
// its entity reports Alive; killing the entity frees the slot for reuse.
package pool

// Entity is implemented by anything that can live in a pool slot.
type Entity interface {
	Alive() bool
}

// Pool is a fixed-size arena of T values addressed through *T.
type Pool[T any, P interface {
	*T
	Entity
}] struct {
	slots []T
}

// New creates a pool with the given capacity. All slots start dead.
func New[T any, P interface {
	*T
	Entity
}](capacity int) *Pool[T, P] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T, P]{slots: make([]T, capacity)}
}

// Alloc returns the first dead slot, or nil when every slot is live.
// The caller must initialize the slot so that it becomes alive.
func (p *Pool[T, P]) Alloc() P {
	for i := range p.slots {
		s := P(&p.slots[i])
		if !s.Alive() {
			return s
		}
	}
	return nil
}

// Cap returns the pool capacity.
func (p *Pool[T, P]) Cap() int {
	return len(p.slots)
}

// At returns the slot at index i, live or not.
func (p *Pool[T, P]) At(i int) P {
	return P(&p.slots[i])
}

// Live counts the live slots.
func (p *Pool[T, P]) Live() int {
	n := 0
	for i := range p.slots {
		if P(&p.slots[i]).Alive() {
			n++
		}
	}
	return n
}

// Each calls fn for every live slot in index order.
func (p *Pool[T, P]) Each(fn func(e P)) {
	for i := range p.slots {
		s := P(&p.slots[i])
		if s.Alive() {
			fn(s)
		}
	}
}

// Find returns the first live slot for which match returns true, or nil.
func (p *Pool[T, P]) Find(match func(e P) bool) P {
	for i := range p.slots {
		s := P(&p.slots[i])
		if s.Alive() && match(s) {
			return s
		}
	}
	return nil
}

// Reset zeroes every slot, killing all entities.
func (p *Pool[T, P]) Reset() {
	clear(p.slots)
}
