package memory

import "fmt"

// Pool is a fixed-capacity, single-threaded object pool. Every instance
// is allocated up front and handed out LIFO from a contiguous slice, so
// the steady state performs zero heap allocation and the most recently
// released object (the cache-warm one) is reused first.
//
// The pool is deliberately unsynchronized: under the single-writer model
// only the matching goroutine borrows and releases. Exhaustion and
// overflow are capacity-planning or accounting bugs, not runtime
// conditions, and both are fatal.
type Pool[T any] struct {
	items []*T
	top   int
	reset func(*T)
}

// NewPool pre-allocates capacity instances with ctor. reset is applied
// to every object on release, clearing fields and linkage before reuse.
func NewPool[T any](capacity int, ctor func() *T, reset func(*T)) *Pool[T] {
	if capacity <= 0 {
		panic("memory: pool capacity must be positive")
	}
	p := &Pool[T]{
		items: make([]*T, capacity),
		top:   capacity,
		reset: reset,
	}
	for i := range p.items {
		p.items[i] = ctor()
	}
	return p
}

// Borrow returns a cleared instance.
func (p *Pool[T]) Borrow() *T {
	if p.top == 0 {
		panic(fmt.Sprintf("memory: pool exhausted (capacity %d)", len(p.items)))
	}
	p.top--
	v := p.items[p.top]
	p.items[p.top] = nil
	return v
}

// Release resets v and returns it to the pool.
func (p *Pool[T]) Release(v *T) {
	if v == nil {
		return
	}
	if p.top == len(p.items) {
		panic("memory: pool overflow")
	}
	p.reset(v)
	p.items[p.top] = v
	p.top++
}

// Available reports how many instances remain borrowable. Observation
// and tests only.
func (p *Pool[T]) Available() int { return p.top }

// Capacity reports the fixed pool size.
func (p *Pool[T]) Capacity() int { return len(p.items) }
