package service

// Config sizes the engine's fixed-capacity resources. All capacities
// are set once at startup; nothing here resizes at runtime.
type Config struct {
	// OrderPoolCapacity bounds the number of resting orders.
	OrderPoolCapacity int

	// LevelPoolCapacity bounds the number of distinct live price levels.
	LevelPoolCapacity int

	// RingSize is the ingress command ring capacity. Power of two.
	RingSize int

	// EgressRingSize is the report ring capacity. Power of two.
	EgressRingSize int

	// WarmupIterations drives the synthetic pre-trading load that gets
	// the hot path compiled and the caches warm. Zero skips warmup.
	WarmupIterations int
}

func DefaultConfig() Config {
	return Config{
		OrderPoolCapacity: 1 << 20,
		LevelPoolCapacity: 1 << 10,
		RingSize:          1 << 16,
		EgressRingSize:    1 << 16,
		WarmupIterations:  200_000,
	}
}
