package service

import (
	"log"

	"nanomatch/api/wire"
	"nanomatch/domain/orderbook"
	"nanomatch/infra/ring"
	"nanomatch/infra/sequence"
)

// Report is one execution report as it travels the egress ring, before
// it is flattened into a wire frame on the I/O side.
type Report struct {
	Seq       uint64
	OrderID   int64
	FilledQty int64
	FillPrice int64
	Status    uint8
	Side      uint8
}

// EgressSink receives match events on the matching goroutine and hands
// them to the I/O side through the report ring. It is the only listener
// the engine sees; everything it does must stay allocation-free.
type EgressSink struct {
	seq *sequence.Sequencer
	out *ring.SPSC[Report]
}

func NewEgressSink(seq *sequence.Sequencer, out *ring.SPSC[Report]) *EgressSink {
	return &EgressSink{seq: seq, out: out}
}

func (s *EgressSink) OnTrade(orderID, price, qty int64, side orderbook.Side) {
	s.out.Push(Report{
		Seq:       s.seq.Next(),
		OrderID:   orderID,
		FilledQty: qty,
		FillPrice: price,
		Status:    wire.StatusFilled,
		Side:      uint8(side),
	})
}

// OnOrderAccepted reports a resting residual. The filled-quantity field
// of an ACCEPTED report carries the remaining resting quantity, per the
// report frame contract.
func (s *EgressSink) OnOrderAccepted(orderID, price, qty int64, side orderbook.Side) {
	s.out.Push(Report{
		Seq:       s.seq.Next(),
		OrderID:   orderID,
		FilledQty: qty,
		FillPrice: price,
		Status:    wire.StatusAccepted,
		Side:      uint8(side),
	})
}

func (s *EgressSink) OnOrderRejected(orderID, price, qty int64, side orderbook.Side, reason string) {
	// Rejections never reach the engine (the gateway validates), and
	// the report frame has no reject status. Log and move on.
	log.Printf("[egress] order %d rejected: %s", orderID, reason)
}
