package ring

import (
	"runtime"
	"sync/atomic"
)

// MPSC is the multi-producer variant of the command ring. Producers
// claim a sequence with an atomic CAS, write their slot, then mark it
// published through a per-slot sequence number; the single consumer
// waits on that number, so it observes slots strictly in claim order
// even when producers finish writing out of order. A gating cursor
// tracks consumption and keeps producers from lapping unconsumed slots.
//
// Sequences start at 1; slot i is ready for sequence s when
// published[i] == s.
type MPSC[T any] struct {
	_     [64]byte
	claim atomic.Uint64 // highest claimed sequence
	_     [56]byte
	gate  atomic.Uint64 // highest consumed sequence
	_     [56]byte

	consumed  uint64 // consumer-local copy of gate
	slots     []T
	published []atomic.Uint64
	mask      uint64
}

// NewMPSC allocates a ring with size slots. size must be a power of two.
func NewMPSC[T any](size uint64) *MPSC[T] {
	if size == 0 || size&(size-1) != 0 {
		panic("ring: size must be a power of two")
	}
	return &MPSC[T]{
		slots:     make([]T, size),
		published: make([]atomic.Uint64, size),
		mask:      size - 1,
	}
}

// Push claims the next sequence, writes v, and publishes the slot. A
// producer that would lap the consumer spins until the consumer frees a
// slot: back-pressure, never a drop.
func (r *MPSC[T]) Push(v T) {
	for {
		current := r.claim.Load()
		next := current + 1

		if next > r.gate.Load()+uint64(len(r.slots)) {
			runtime.Gosched()
			continue
		}

		if r.claim.CompareAndSwap(current, next) {
			idx := next & r.mask
			r.slots[idx] = v
			r.published[idx].Store(next)
			return
		}
		// Lost the claim race; retry.
	}
}

// Poll hands the next published slot to fn. It returns false when the
// next sequence has not been published yet, even if later slots have:
// consumption is strictly in sequence order.
func (r *MPSC[T]) Poll(fn func(*T)) bool {
	next := r.consumed + 1
	idx := next & r.mask
	if r.published[idx].Load() != next {
		return false
	}
	fn(&r.slots[idx])
	r.consumed = next
	r.gate.Store(next)
	return true
}

// Len reports the unconsumed slot count. Racy; observation only.
func (r *MPSC[T]) Len() uint64 {
	return r.claim.Load() - r.gate.Load()
}

// Cap reports the fixed slot count.
func (r *MPSC[T]) Cap() uint64 {
	return uint64(len(r.slots))
}
