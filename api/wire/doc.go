// Package wire defines the fixed binary frame layouts exchanged with
// the outside world and reusable zero-copy views over them. The ingress
// decodes 25-byte order frames; the egress encodes 26-byte execution
// reports. All integers are little-endian.
package wire
