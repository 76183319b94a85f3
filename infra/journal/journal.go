package journal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// -------------------- State --------------------

// State tracks a report through the delivery pipeline.
type State uint8

const (
	StateNew State = iota
	StateSent
	StateAcked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// -------------------- Entry --------------------

// Entry is one outbound execution report plus its delivery bookkeeping.
// Frame holds the encoded 26-byte report exactly as it goes on the wire.
type Entry struct {
	State       State
	Retries     uint32
	LastAttempt int64
	Frame       []byte
}

var ErrCorruptEntry = errors.New("journal: corrupt entry")

// binary encoding: [state:1][retries:4][lastAttempt:8][frame...]
func encodeEntry(e Entry) []byte {
	buf := make([]byte, 1+4+8+len(e.Frame))
	buf[0] = byte(e.State)
	binary.BigEndian.PutUint32(buf[1:5], e.Retries)
	binary.BigEndian.PutUint64(buf[5:13], uint64(e.LastAttempt))
	copy(buf[13:], e.Frame)
	return buf
}

func decodeEntry(b []byte) (Entry, error) {
	if len(b) < 13 {
		return Entry{}, ErrCorruptEntry
	}
	return Entry{
		State:       State(b[0]),
		Retries:     binary.BigEndian.Uint32(b[1:5]),
		LastAttempt: int64(binary.BigEndian.Uint64(b[5:13])),
		Frame:       append([]byte(nil), b[13:]...),
	}, nil
}

// -------------------- Journal --------------------

// Journal is the pebble-backed egress outbox. Every report the engine
// emits is stored under its egress sequence before delivery is
// attempted, walked through NEW -> SENT -> ACKED, and deleted once
// acknowledged. That is what upgrades the sink contract to
// at-least-once: anything not acked is still here to rebroadcast.
type Journal struct {
	db *pebble.DB
}

func Open(dir string) (*Journal, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false, // durability over raw write speed here
	})
	if err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// -------------------- API --------------------

// PutNew stores a freshly emitted report frame under seq.
func (j *Journal) PutNew(seq uint64, frame []byte) error {
	e := Entry{
		State: StateNew,
		Frame: frame,
	}
	return j.db.Set(keyFor(seq), encodeEntry(e), pebble.Sync)
}

// MarkSent records a delivery attempt.
func (j *Journal) MarkSent(seq uint64) error {
	return j.updateState(seq, StateSent)
}

// MarkAcked records downstream acknowledgement.
func (j *Journal) MarkAcked(seq uint64) error {
	return j.updateState(seq, StateAcked)
}

// MarkFailed records a failed delivery attempt.
func (j *Journal) MarkFailed(seq uint64) error {
	return j.updateState(seq, StateFailed)
}

func (j *Journal) updateState(seq uint64, state State) error {
	e, err := j.Get(seq)
	if err != nil {
		return err
	}
	e.State = state
	// Retries counts delivery attempts, not state changes: an ack is
	// not an attempt.
	if state == StateSent || state == StateFailed {
		e.Retries++
		e.LastAttempt = time.Now().UnixNano()
	}
	return j.db.Set(keyFor(seq), encodeEntry(e), pebble.Sync)
}

// Delete removes an acked entry (cleanup).
func (j *Journal) Delete(seq uint64) error {
	return j.db.Delete(keyFor(seq), pebble.Sync)
}

// Get returns the entry stored under seq.
func (j *Journal) Get(seq uint64) (Entry, error) {
	val, closer, err := j.db.Get(keyFor(seq))
	if err != nil {
		return Entry{}, err
	}
	defer closer.Close()

	return decodeEntry(val)
}

// -------------------- Scan --------------------

// ScanByState iterates entries in the given state in sequence order.
// Used by the broadcaster to find undelivered reports.
func (j *Journal) ScanByState(state State, fn func(seq uint64, e Entry) error) error {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("report/"),
		UpperBound: []byte("report/~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		e, err := decodeEntry(iter.Value())
		if err != nil {
			return err
		}
		if e.State != state {
			continue
		}

		seq, err := parseKey(iter.Key())
		if err != nil {
			return err
		}
		if err := fn(seq, e); err != nil {
			return err
		}
	}
	return iter.Error()
}

// -------------------- Helpers --------------------

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("report/%020d", seq))
}

func parseKey(b []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(b, []byte("report/"))), "%d", &seq)
	return seq, err
}
