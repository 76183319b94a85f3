package orderbook

type color uint8

const (
	red   color = 0
	black color = 1
)

// PriceLevel is the FIFO queue of every resting order at one price on one
// side. Time priority is the queue order: fills consume from head, new
// residuals append at tail.
//
// The red-black tree links live inside the level itself (intrusive), so
// walking to the next best price never touches a separately allocated
// node. The links are owned by RBTree; the queue is owned by the level.
// Instances are owned by the level pool.
type PriceLevel struct {
	Price         int64
	TotalQuantity int64

	head *Order
	tail *Order

	left   *PriceLevel
	right  *PriceLevel
	parent *PriceLevel
	color  color
}

// Reset clears the queue and the tree linkage. Called by the pool on
// release.
func (l *PriceLevel) Reset() {
	l.Price = 0
	l.TotalQuantity = 0
	l.head = nil
	l.tail = nil
	l.left = nil
	l.right = nil
	l.parent = nil
	l.color = black
}

// AddOrder appends o at the tail of the queue.
func (l *PriceLevel) AddOrder(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
		o.prev = nil
		o.next = nil
	} else {
		l.tail.next = o
		o.prev = l.tail
		o.next = nil
		l.tail = o
	}
	l.TotalQuantity += o.Quantity
}

// RemoveOrder unlinks o in O(1) using its embedded links. o must be in
// this level's queue.
func (l *PriceLevel) RemoveOrder(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	l.TotalQuantity -= o.Quantity
	o.next = nil
	o.prev = nil
}

// IsEmpty reports whether the queue holds no orders. An empty level must
// not remain in the side's map or tree.
func (l *PriceLevel) IsEmpty() bool {
	return l.head == nil
}

// Head is a read-only helper for tests and snapshots.
func (l *PriceLevel) Head() *Order {
	return l.head
}
