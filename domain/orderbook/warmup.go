package orderbook

import (
	"log"
	"time"
)

// DefaultWarmupIterations is the pre-run cycle count applied before a
// live engine starts taking traffic.
const DefaultWarmupIterations = 200_000

// Warmup drives a throwaway engine through n match/rest cycles so the
// matching code and data paths are hot before live traffic arrives. The
// cycles are self-cancelling (every placed order is immediately crossed)
// and run against an isolated engine, so no live book is touched and the
// warmup pools end exactly as full as they started.
func Warmup(n int) {
	if n <= 0 {
		return
	}

	start := time.Now()
	engine := NewEngineWithCapacity(NopListener{}, 1<<10, 1<<6)

	for i := 0; i < n; i++ {
		engine.AcceptOrder(-1, 100, 10, Sell)
		engine.AcceptOrder(-2, 100, 10, Buy)

		// Every so often touch a second price so the tree paths
		// (insert, remove, rebalance) get exercised too.
		if i%100 == 0 {
			engine.AcceptOrder(-3, 50, 5, Buy)
			engine.AcceptOrder(-4, 50, 5, Sell)
		}
	}

	log.Printf("warmup: %d cycles in %s", n, time.Since(start))
}
