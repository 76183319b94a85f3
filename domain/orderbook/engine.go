package orderbook

import "nanomatch/infra/memory"

// Default pool capacities. Sized from peak open-order and active-level
// counts; exhaustion is fatal, so embedders with bigger books must raise
// these through NewEngineWithCapacity.
const (
	DefaultOrderPoolCapacity = 1 << 20
	DefaultLevelPoolCapacity = 1 << 10
)

// Engine is the matching state machine. The input stream is totally
// ordered and the engine is single-threaded, so book state is a pure
// fold of the commands: State(T) = Apply(State(T-1), Command(T)). That
// is what makes the engine deterministic and replayable.
//
// Engine owns the object pools, so multiple engines (one per
// instrument) can coexist in a process without shared state.
type Engine struct {
	book     *OrderBook
	listener MatchEventListener

	orderPool *memory.Pool[Order]
	levelPool *memory.Pool[PriceLevel]
}

func NewEngine(listener MatchEventListener) *Engine {
	return NewEngineWithCapacity(listener, DefaultOrderPoolCapacity, DefaultLevelPoolCapacity)
}

func NewEngineWithCapacity(listener MatchEventListener, orderCap, levelCap int) *Engine {
	orderPool := memory.NewPool(orderCap, func() *Order { return new(Order) }, (*Order).Reset)
	levelPool := memory.NewPool(levelCap, func() *PriceLevel { return new(PriceLevel) }, (*PriceLevel).Reset)

	return &Engine{
		book:      NewOrderBook(orderPool, levelPool),
		listener:  listener,
		orderPool: orderPool,
		levelPool: levelPool,
	}
}

// AcceptOrder processes one order command to completion: match whatever
// crosses, then rest the residual. Exactly one OrderAccepted is emitted
// when a residual rests; a fully filled incoming order produces only its
// trades.
//
// price and qty must be positive; the ingress validates, so a violation
// here is a programming error upstream.
func (e *Engine) AcceptOrder(id, price, qty int64, side Side) {
	filled := e.book.Match(id, price, qty, side, e.listener)

	remaining := qty - filled
	if remaining > 0 {
		e.book.AddOrder(id, price, remaining, side)
		e.listener.OnOrderAccepted(id, price, remaining, side)
	}
}

// Book exposes the book for inspection. Read it only from the matching
// goroutine, or after the engine has stopped.
func (e *Engine) Book() *OrderBook {
	return e.book
}

// OrderPool and LevelPool expose pool occupancy for observation and
// tests.
func (e *Engine) OrderPool() *memory.Pool[Order]      { return e.orderPool }
func (e *Engine) LevelPool() *memory.Pool[PriceLevel] { return e.levelPool }
