// Package service orchestrates the matching pipeline: the ingress
// command ring, the pinned matching goroutine, and the egress side that
// frames execution reports and hands them to the outbox and the live
// producer. The Exchange type is the single entry point; transports
// stay outside and feed it raw frames.
package service
