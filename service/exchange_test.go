package service

import (
	"sync"
	"testing"

	"nanomatch/api/wire"
	"nanomatch/domain/orderbook"
)

func testConfig() Config {
	return Config{
		OrderPoolCapacity: 1 << 10,
		LevelPoolCapacity: 1 << 6,
		RingSize:          1 << 8,
		EgressRingSize:    1 << 8,
		WarmupIterations:  0,
	}
}

// capture collects reports and frame copies from the pump goroutine.
type capture struct {
	mu      sync.Mutex
	reports []Report
	frames  [][]byte
}

func (c *capture) handler(r Report, frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
	c.frames = append(c.frames, append([]byte(nil), frame...))
}

func orderFrame(id, price, qty int64, side uint8) []byte {
	buf := make([]byte, wire.OrderFrameLength)
	var v wire.OrderView
	v.Wrap(buf, 0)
	v.SetOrderID(id)
	v.SetPrice(price)
	v.SetQuantity(qty)
	v.SetSide(side)
	return buf
}

func TestIngestValidation(t *testing.T) {
	rec := &capture{}
	e := New(testConfig(), nil, nil, rec.handler)
	defer e.Close()

	if err := e.Ingest(make([]byte, wire.OrderFrameLength-1)); err != ErrShortFrame {
		t.Errorf("short frame: got %v, want ErrShortFrame", err)
	}
	if err := e.Ingest(orderFrame(1, 100, 10, 9)); err != ErrBadSide {
		t.Errorf("bad side: got %v, want ErrBadSide", err)
	}
	if err := e.Ingest(orderFrame(1, 0, 10, wire.SideBuy)); err != ErrBadPrice {
		t.Errorf("zero price: got %v, want ErrBadPrice", err)
	}
	if err := e.Ingest(orderFrame(1, -5, 10, wire.SideBuy)); err != ErrBadPrice {
		t.Errorf("negative price: got %v, want ErrBadPrice", err)
	}
	if err := e.Ingest(orderFrame(1, 100, 0, wire.SideBuy)); err != ErrBadQuantity {
		t.Errorf("zero quantity: got %v, want ErrBadQuantity", err)
	}
}

func TestEndToEndReports(t *testing.T) {
	rec := &capture{}
	e := New(testConfig(), nil, nil, rec.handler)

	if err := e.Ingest(orderFrame(1, 100, 10, wire.SideSell)); err != nil {
		t.Fatalf("ingest sell: %v", err)
	}
	if err := e.Ingest(orderFrame(2, 100, 4, wire.SideBuy)); err != nil {
		t.Fatalf("ingest buy: %v", err)
	}
	e.Close() // drains both rings

	rec.mu.Lock()
	defer rec.mu.Unlock()

	want := []Report{
		{Seq: 1, OrderID: 1, FilledQty: 10, FillPrice: 100, Status: wire.StatusAccepted, Side: wire.SideSell},
		{Seq: 2, OrderID: 1, FilledQty: 4, FillPrice: 100, Status: wire.StatusFilled, Side: wire.SideSell},
		{Seq: 3, OrderID: 2, FilledQty: 4, FillPrice: 100, Status: wire.StatusFilled, Side: wire.SideBuy},
	}
	if len(rec.reports) != len(want) {
		t.Fatalf("reports: got %d, want %d\n%+v", len(rec.reports), len(want), rec.reports)
	}
	for i := range want {
		if rec.reports[i] != want[i] {
			t.Errorf("report %d: got %+v, want %+v", i, rec.reports[i], want[i])
		}
	}

	// Frames carry the same data the handler saw.
	var v wire.ReportView
	v.Wrap(rec.frames[1], 0)
	if v.OrderID() != 1 || v.FilledQuantity() != 4 || v.FillPrice() != 100 ||
		v.Status() != wire.StatusFilled || v.Side() != wire.SideSell {
		t.Errorf("maker frame: %d %d %d %d %d", v.OrderID(), v.FilledQuantity(), v.FillPrice(), v.Status(), v.Side())
	}

	if lvl := e.Engine().Book().Level(100, orderbook.Sell); lvl == nil || lvl.TotalQuantity != 6 {
		t.Errorf("resting ask: got %+v, want qty=6", lvl)
	}
}

func TestConcurrentIngest(t *testing.T) {
	rec := &capture{}
	e := New(testConfig(), nil, nil, rec.handler)

	const (
		producers = 4
		perProd   = 200
	)
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			base := int64(1 + p*perProd)
			for i := int64(0); i < perProd; i++ {
				side := wire.SideBuy
				if (base+i)%2 == 0 {
					side = wire.SideSell
				}
				if err := e.Ingest(orderFrame(base+i, 100, 1, side)); err != nil {
					t.Errorf("ingest: %v", err)
				}
			}
		}(p)
	}
	wg.Wait()
	e.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	// Sequences are gapless and strictly increasing.
	for i, r := range rec.reports {
		if r.Seq != uint64(i+1) {
			t.Fatalf("report %d: seq %d, want %d", i, r.Seq, i+1)
		}
	}

	// Mass conservation: submitted quantity equals twice the traded
	// quantity (each slice consumes a maker unit and a taker unit; each
	// slice is reported twice) plus whatever still rests.
	var traded int64
	for _, r := range rec.reports {
		if r.Status == wire.StatusFilled {
			traded += r.FilledQty
		}
	}
	if traded%2 != 0 {
		t.Fatalf("trade reports must pair maker/taker, traded=%d", traded)
	}

	var resting int64
	sum := func(lvl *orderbook.PriceLevel) bool {
		resting += lvl.TotalQuantity
		return true
	}
	book := e.Engine().Book()
	book.Bids().ForEachAscending(sum)
	book.Asks().ForEachAscending(sum)

	if int64(producers*perProd) != traded+resting {
		t.Fatalf("mass conservation: submitted=%d traded=%d resting=%d",
			producers*perProd, traded, resting)
	}
}
