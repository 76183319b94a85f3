package wire

import "encoding/binary"

// Inbound order command frame, 25 bytes, little-endian.
const (
	OrderIDOffset       = 0
	OrderPriceOffset    = 8
	OrderQuantityOffset = 16
	OrderSideOffset     = 24

	OrderFrameLength = 25
)

// Wire values for the side byte.
const (
	SideBuy  uint8 = 0
	SideSell uint8 = 1
)

// OrderView is a reusable view over an inbound order frame at a fixed
// offset in a buffer. Wrap repositions it; nothing is copied and nothing
// is allocated, the transport's buffer is read in place.
type OrderView struct {
	buf    []byte
	offset int
}

// Wrap points the view at buf[offset:] and returns it for chaining.
func (v *OrderView) Wrap(buf []byte, offset int) *OrderView {
	v.buf = buf
	v.offset = offset
	return v
}

func (v *OrderView) OrderID() int64 {
	return int64(binary.LittleEndian.Uint64(v.buf[v.offset+OrderIDOffset:]))
}

func (v *OrderView) SetOrderID(id int64) {
	binary.LittleEndian.PutUint64(v.buf[v.offset+OrderIDOffset:], uint64(id))
}

func (v *OrderView) Price() int64 {
	return int64(binary.LittleEndian.Uint64(v.buf[v.offset+OrderPriceOffset:]))
}

func (v *OrderView) SetPrice(price int64) {
	binary.LittleEndian.PutUint64(v.buf[v.offset+OrderPriceOffset:], uint64(price))
}

func (v *OrderView) Quantity() int64 {
	return int64(binary.LittleEndian.Uint64(v.buf[v.offset+OrderQuantityOffset:]))
}

func (v *OrderView) SetQuantity(qty int64) {
	binary.LittleEndian.PutUint64(v.buf[v.offset+OrderQuantityOffset:], uint64(qty))
}

func (v *OrderView) Side() uint8 {
	return v.buf[v.offset+OrderSideOffset]
}

func (v *OrderView) SetSide(side uint8) {
	v.buf[v.offset+OrderSideOffset] = side
}
