package orderbook

// Side of an order. The values match the wire encoding (0 = buy, 1 = sell).
type Side uint8

const (
	Buy  Side = 0
	Sell Side = 1
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// Order is a single resting order. The prev/next links embed it directly
// into its price level's FIFO queue, so enqueueing and unlinking never
// allocate a wrapper node. Instances are owned by the order pool.
type Order struct {
	ID       int64
	Price    int64
	Quantity int64
	Side     Side

	next *Order
	prev *Order
}

// Reset clears all fields and linkage. Called by the pool on release.
func (o *Order) Reset() {
	o.ID = 0
	o.Price = 0
	o.Quantity = 0
	o.Side = Buy
	o.next = nil
	o.prev = nil
}

// Next is a read-only traversal helper for tests and snapshots.
func (o *Order) Next() *Order {
	return o.next
}
