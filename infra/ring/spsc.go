package ring

import (
	"runtime"
	"sync/atomic"
)

// SPSC is a single-producer/single-consumer ring over a power-of-two
// slice of pre-allocated slots. The producer publishes with a release
// store on its cursor and the consumer pairs it with an acquire load, so
// every write into a slot is visible before the slot is observed. No
// locks, no condition variables, no kernel waits.
//
// The cursors sit on separate cache lines so the producer's and the
// consumer's cores never invalidate each other's line on every advance.
type SPSC[T any] struct {
	_        [64]byte
	writePos atomic.Uint64
	_        [56]byte
	readPos  atomic.Uint64
	_        [56]byte

	slots []T
	mask  uint64
}

// NewSPSC allocates a ring with size slots. size must be a power of two
// so index wrapping is a single mask.
func NewSPSC[T any](size uint64) *SPSC[T] {
	if size == 0 || size&(size-1) != 0 {
		panic("ring: size must be a power of two")
	}
	return &SPSC[T]{
		slots: make([]T, size),
		mask:  size - 1,
	}
}

// Push writes v into the next slot and publishes it. When the consumer
// is a full lap behind, Push spins until a slot frees: the stream is
// back-pressured, never dropped.
func (r *SPSC[T]) Push(v T) {
	w := r.writePos.Load()
	for w-r.readPos.Load() == uint64(len(r.slots)) {
		runtime.Gosched()
	}
	r.slots[w&r.mask] = v
	r.writePos.Store(w + 1)
}

// Poll hands the oldest unconsumed slot to fn and advances the consumer
// cursor. It returns false without calling fn when the ring is empty,
// which lets the consumer busy-spin around it.
func (r *SPSC[T]) Poll(fn func(*T)) bool {
	t := r.readPos.Load()
	if t == r.writePos.Load() {
		return false
	}
	fn(&r.slots[t&r.mask])
	r.readPos.Store(t + 1)
	return true
}

// Len reports the unconsumed slot count. Racy by nature; observation
// only.
func (r *SPSC[T]) Len() uint64 {
	return r.writePos.Load() - r.readPos.Load()
}

// Cap reports the fixed slot count.
func (r *SPSC[T]) Cap() uint64 {
	return uint64(len(r.slots))
}
