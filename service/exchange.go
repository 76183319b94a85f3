package service

import (
	"context"
	"encoding/binary"
	"errors"
	"log"
	"runtime"
	"sync/atomic"

	"nanomatch/api/wire"
	"nanomatch/domain/orderbook"
	"nanomatch/infra/journal"
	"nanomatch/infra/kafka"
	"nanomatch/infra/ring"
	"nanomatch/infra/sequence"
)

var (
	ErrShortFrame  = errors.New("service: short order frame")
	ErrBadSide     = errors.New("service: invalid side")
	ErrBadPrice    = errors.New("service: price must be positive")
	ErrBadQuantity = errors.New("service: quantity must be positive")
)

// ReportHandler observes every report after it has been framed. Tests
// hook this to capture egress without a broker; the frame buffer is
// reused between calls and must not be retained.
type ReportHandler func(r Report, frame []byte)

// Exchange wires the full pipeline: validated frames in through the
// command ring, the pinned matching loop in the middle, and reports out
// through the egress ring to the outbox and the live producer.
type Exchange struct {
	cfg     Config
	engine  *orderbook.Engine
	matcher *Matcher

	in  *ring.MPSC[ring.OrderCommand]
	out *ring.SPSC[Report]
	seq *sequence.Sequencer

	journal  *journal.Journal
	producer *kafka.Producer
	handler  ReportHandler

	pumpStop atomic.Bool
	pumpDone chan struct{}
}

// New builds and starts an exchange. journal and producer may be nil;
// each disables the corresponding egress leg. Warmup runs to completion
// before the matcher starts, so the first real order hits warm code.
func New(cfg Config, j *journal.Journal, producer *kafka.Producer, handler ReportHandler) *Exchange {
	if cfg.WarmupIterations > 0 {
		orderbook.Warmup(cfg.WarmupIterations)
	}

	e := &Exchange{
		cfg:      cfg,
		in:       ring.NewMPSC[ring.OrderCommand](uint64(cfg.RingSize)),
		out:      ring.NewSPSC[Report](uint64(cfg.EgressRingSize)),
		seq:      sequence.New(0),
		journal:  j,
		producer: producer,
		handler:  handler,
		pumpDone: make(chan struct{}),
	}

	sink := NewEgressSink(e.seq, e.out)
	e.engine = orderbook.NewEngineWithCapacity(sink, cfg.OrderPoolCapacity, cfg.LevelPoolCapacity)
	e.matcher = NewMatcher(e.in, e.engine)

	e.matcher.Start()
	go e.pump()
	return e
}

// Ingest validates one order frame and queues it for matching. The
// frame buffer is copied into the ring slot before Ingest returns.
// Invalid frames are rejected here; the matching loop only ever sees
// well-formed commands.
func (e *Exchange) Ingest(frame []byte) error {
	if len(frame) < wire.OrderFrameLength {
		return ErrShortFrame
	}

	var v wire.OrderView
	v.Wrap(frame, 0)
	side := v.Side()
	if side != wire.SideBuy && side != wire.SideSell {
		return ErrBadSide
	}
	if v.Price() <= 0 {
		return ErrBadPrice
	}
	if v.Quantity() <= 0 {
		return ErrBadQuantity
	}

	e.in.Push(ring.OrderCommand{
		ID:       v.OrderID(),
		Price:    v.Price(),
		Quantity: v.Quantity(),
		Side:     side,
	})
	return nil
}

// pump drains the egress ring on the I/O side: frame the report, make
// it durable in the outbox, then attempt live delivery. The matching
// goroutine never blocks on any of this.
func (e *Exchange) pump() {
	defer close(e.pumpDone)

	buf := make([]byte, wire.ReportFrameLength)
	var v wire.ReportView
	v.Wrap(buf, 0)
	ctx := context.Background()

	for {
		consumed := e.out.Poll(func(r *Report) {
			e.emit(ctx, &v, buf, r)
		})
		if consumed {
			continue
		}
		if e.pumpStop.Load() {
			for e.out.Poll(func(r *Report) {
				e.emit(ctx, &v, buf, r)
			}) {
			}
			return
		}
		runtime.Gosched()
	}
}

func (e *Exchange) emit(ctx context.Context, v *wire.ReportView, buf []byte, r *Report) {
	v.SetOrderID(r.OrderID)
	v.SetFilledQuantity(r.FilledQty)
	v.SetFillPrice(r.FillPrice)
	v.SetStatus(r.Status)
	v.SetSide(r.Side)

	if e.journal != nil {
		if err := e.journal.PutNew(r.Seq, buf); err != nil {
			log.Printf("[egress] outbox write seq=%d: %v", r.Seq, err)
		}
	}
	if e.producer != nil {
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, r.Seq)
		if err := e.producer.Send(ctx, key, append([]byte(nil), buf...)); err != nil {
			log.Printf("[egress] publish seq=%d: %v", r.Seq, err)
			if e.journal != nil {
				_ = e.journal.MarkFailed(r.Seq)
			}
		} else if e.journal != nil {
			_ = e.journal.MarkSent(r.Seq)
		}
	}
	if e.handler != nil {
		e.handler(*r, buf)
	}
}

// Engine exposes the core for inspection. Only safe once the matcher
// has stopped or in tests that serialize access themselves.
func (e *Exchange) Engine() *orderbook.Engine {
	return e.engine
}

// Close shuts the pipeline down in dependency order: the caller stops
// ingress first, then the matcher drains the command ring, then the
// pump drains the report ring. No report is dropped on shutdown.
func (e *Exchange) Close() {
	e.matcher.Stop()
	e.pumpStop.Store(true)
	<-e.pumpDone
}
