package wire

import "encoding/binary"

// Outbound execution report frame, 26 bytes, little-endian. For an
// ACCEPTED report FilledQuantity carries the remaining resting quantity
// and FillPrice the submission price; for a FILLED report they carry the
// traded slice and the passive level's price.
const (
	ReportOrderIDOffset   = 0
	ReportFilledQtyOffset = 8
	ReportFillPriceOffset = 16
	ReportStatusOffset    = 24
	ReportSideOffset      = 25

	ReportFrameLength = 26
)

// Wire values for the status byte.
const (
	StatusAccepted uint8 = 0
	StatusFilled   uint8 = 1
)

// ReportView is the reusable view over an execution report frame,
// symmetric to OrderView.
type ReportView struct {
	buf    []byte
	offset int
}

// Wrap points the view at buf[offset:] and returns it for chaining.
func (v *ReportView) Wrap(buf []byte, offset int) *ReportView {
	v.buf = buf
	v.offset = offset
	return v
}

func (v *ReportView) OrderID() int64 {
	return int64(binary.LittleEndian.Uint64(v.buf[v.offset+ReportOrderIDOffset:]))
}

func (v *ReportView) SetOrderID(id int64) {
	binary.LittleEndian.PutUint64(v.buf[v.offset+ReportOrderIDOffset:], uint64(id))
}

func (v *ReportView) FilledQuantity() int64 {
	return int64(binary.LittleEndian.Uint64(v.buf[v.offset+ReportFilledQtyOffset:]))
}

func (v *ReportView) SetFilledQuantity(qty int64) {
	binary.LittleEndian.PutUint64(v.buf[v.offset+ReportFilledQtyOffset:], uint64(qty))
}

func (v *ReportView) FillPrice() int64 {
	return int64(binary.LittleEndian.Uint64(v.buf[v.offset+ReportFillPriceOffset:]))
}

func (v *ReportView) SetFillPrice(price int64) {
	binary.LittleEndian.PutUint64(v.buf[v.offset+ReportFillPriceOffset:], uint64(price))
}

func (v *ReportView) Status() uint8 {
	return v.buf[v.offset+ReportStatusOffset]
}

func (v *ReportView) SetStatus(status uint8) {
	v.buf[v.offset+ReportStatusOffset] = status
}

func (v *ReportView) Side() uint8 {
	return v.buf[v.offset+ReportSideOffset]
}

func (v *ReportView) SetSide(side uint8) {
	v.buf[v.offset+ReportSideOffset] = side
}
