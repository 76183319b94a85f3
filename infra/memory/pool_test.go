package memory

import "testing"

type thing struct {
	n    int
	next *thing
}

func (t *thing) reset() {
	t.n = 0
	t.next = nil
}

func newThingPool(capacity int) *Pool[thing] {
	return NewPool(capacity, func() *thing { return new(thing) }, (*thing).reset)
}

func TestPoolBorrowRelease(t *testing.T) {
	p := newThingPool(4)

	if p.Capacity() != 4 || p.Available() != 4 {
		t.Fatalf("fresh pool: cap=%d avail=%d", p.Capacity(), p.Available())
	}

	a := p.Borrow()
	b := p.Borrow()
	if a == nil || b == nil || a == b {
		t.Fatal("borrow returned bad objects")
	}
	if p.Available() != 2 {
		t.Fatalf("available after two borrows: got %d, want 2", p.Available())
	}

	a.n = 42
	a.next = b
	p.Release(a)

	if p.Available() != 3 {
		t.Fatalf("available after release: got %d, want 3", p.Available())
	}

	// LIFO: the released object comes back next, and reset.
	c := p.Borrow()
	if c != a {
		t.Fatal("expected LIFO reuse of released object")
	}
	if c.n != 0 || c.next != nil {
		t.Fatalf("object not reset on release: %+v", c)
	}
}

func TestPoolExhaustionPanics(t *testing.T) {
	p := newThingPool(2)
	p.Borrow()
	p.Borrow()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on exhausted pool")
		}
	}()
	p.Borrow()
}

func TestPoolOverflowPanics(t *testing.T) {
	p := newThingPool(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overflow release")
		}
	}()
	p.Release(new(thing))
}
