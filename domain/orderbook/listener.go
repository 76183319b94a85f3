package orderbook

// MatchEventListener receives execution events from the engine,
// synchronously on the matching goroutine, in emission order: for each
// fill slice the maker's trade strictly precedes the taker's, and all
// fills precede the final accept for a resting residual.
//
// Implementations must not block: anything that touches I/O hands the
// event off (e.g. onto an egress ring) instead.
type MatchEventListener interface {
	OnTrade(orderID, price, qty int64, side Side)
	OnOrderAccepted(orderID, price, qty int64, side Side)
	OnOrderRejected(orderID, price, qty int64, side Side, reason string)
}

// NopListener discards every event. Used by warmup and benchmarks.
type NopListener struct{}

func (NopListener) OnTrade(orderID, price, qty int64, side Side)                  {}
func (NopListener) OnOrderAccepted(orderID, price, qty int64, side Side)          {}
func (NopListener) OnOrderRejected(orderID, price, qty int64, side Side, reason string) {}
