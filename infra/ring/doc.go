// Package ring provides the lock-free ring buffers that hand order
// commands from the I/O side to the matching goroutine and execution
// reports back out. Publication relies on memory ordering (release
// store / acquire load on the cursors) instead of locks, so the hot
// path never enters the kernel.
package ring
