// Package memory provides the fixed-capacity object pools that back
// the matching core. Orders and price levels are borrowed and released
// through these pools instead of the heap, so the hot path stays
// allocation-free after startup.
//
// The package is dependency-free and unsynchronized by contract: each
// pool belongs to exactly one goroutine.
package memory
