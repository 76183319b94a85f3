// Package orderbook implements the matching core for a single
// instrument: the price-time priority engine, the hybrid book (price
// map + intrusive red-black tree + FIFO per level), and the pooled
// order and level objects that keep the hot path free of heap
// allocation.
//
// Everything in this package is single-writer: one matching goroutine
// owns the book, the tree, and the pools, which is why none of it is
// synchronized.
package orderbook
