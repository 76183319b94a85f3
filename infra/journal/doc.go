// Package journal implements the durable egress outbox. It keeps the
// core free of delivery concerns: the engine emits, the outbox
// remembers, the broadcaster retries until acked.
package journal
