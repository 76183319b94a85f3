package service

import (
	"testing"

	"nanomatch/api/wire"
	"nanomatch/domain/orderbook"
	"nanomatch/infra/ring"
	"nanomatch/infra/sequence"
)

func newTestSink() (*EgressSink, *ring.SPSC[Report]) {
	out := ring.NewSPSC[Report](1 << 4)
	return NewEgressSink(sequence.New(0), out), out
}

func pollOne(t *testing.T, out *ring.SPSC[Report]) Report {
	t.Helper()
	var r Report
	if !out.Poll(func(v *Report) { r = *v }) {
		t.Fatal("no report on the ring")
	}
	return r
}

// An ACCEPTED report's filled-quantity field carries the remaining
// resting quantity, not zero.
func TestAcceptedReportCarriesRestingQuantity(t *testing.T) {
	sink, out := newTestSink()

	sink.OnOrderAccepted(7, 100, 10, orderbook.Buy)

	r := pollOne(t, out)
	want := Report{Seq: 1, OrderID: 7, FilledQty: 10, FillPrice: 100, Status: wire.StatusAccepted, Side: wire.SideBuy}
	if r != want {
		t.Fatalf("accepted report: got %+v, want %+v", r, want)
	}
}

func TestTradeReportFields(t *testing.T) {
	sink, out := newTestSink()

	sink.OnTrade(3, 95, 4, orderbook.Sell)

	r := pollOne(t, out)
	want := Report{Seq: 1, OrderID: 3, FilledQty: 4, FillPrice: 95, Status: wire.StatusFilled, Side: wire.SideSell}
	if r != want {
		t.Fatalf("trade report: got %+v, want %+v", r, want)
	}
}

func TestSinkSequencesReportsInEmissionOrder(t *testing.T) {
	sink, out := newTestSink()

	sink.OnTrade(1, 100, 5, orderbook.Sell)
	sink.OnTrade(2, 100, 5, orderbook.Buy)
	sink.OnOrderAccepted(2, 100, 3, orderbook.Buy)

	for i := uint64(1); i <= 3; i++ {
		if r := pollOne(t, out); r.Seq != i {
			t.Fatalf("report %d: seq %d", i, r.Seq)
		}
	}
}
