package ring

// OrderCommand is one pre-allocated slot in the command ring: the four
// scalars the decoder extracts from an inbound order frame. Side uses
// the wire values (0 = buy, 1 = sell).
type OrderCommand struct {
	ID       int64
	Price    int64
	Quantity int64
	Side     uint8
}

// Reset clears the slot for reuse.
func (c *OrderCommand) Reset() {
	*c = OrderCommand{}
}
