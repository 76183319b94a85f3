package service

import (
	"runtime"
	"sync/atomic"

	"nanomatch/domain/orderbook"
	"nanomatch/infra/ring"
)

// Matcher owns the matching goroutine. It is the single consumer of the
// ingress command ring and the single writer of the book; all mutation
// of book state happens on this goroutine, so the core needs no locks.
type Matcher struct {
	in     *ring.MPSC[ring.OrderCommand]
	engine *orderbook.Engine

	stop atomic.Bool
	done chan struct{}
}

func NewMatcher(in *ring.MPSC[ring.OrderCommand], engine *orderbook.Engine) *Matcher {
	return &Matcher{
		in:     in,
		engine: engine,
		done:   make(chan struct{}),
	}
}

// Start launches the matching loop. Call once.
func (m *Matcher) Start() {
	go m.run()
}

func (m *Matcher) run() {
	// Pin the matching loop to one OS thread. The loop busy-polls with
	// Gosched backoff; migrating it across threads costs cache warmth.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(m.done)

	for {
		consumed := m.in.Poll(func(cmd *ring.OrderCommand) {
			m.engine.AcceptOrder(cmd.ID, cmd.Price, cmd.Quantity, orderbook.Side(cmd.Side))
		})
		if consumed {
			continue
		}
		if m.stop.Load() {
			// Drain whatever raced in between the last poll and the
			// stop flag, then exit.
			for m.in.Poll(func(cmd *ring.OrderCommand) {
				m.engine.AcceptOrder(cmd.ID, cmd.Price, cmd.Quantity, orderbook.Side(cmd.Side))
			}) {
			}
			return
		}
		runtime.Gosched()
	}
}

// Stop asks the loop to drain and exit, then waits for it.
func (m *Matcher) Stop() {
	m.stop.Store(true)
	<-m.done
}
