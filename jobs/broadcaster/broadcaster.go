// Package broadcaster implements the background job that scans the
// egress outbox for undelivered execution reports and republishes them
// until they are acknowledged. Together with the outbox it gives the
// event stream its at-least-once guarantee.
package broadcaster

import (
	"context"
	"encoding/binary"
	"log"
	"time"

	"github.com/IBM/sarama"

	"nanomatch/infra/journal"
)

type Broadcaster struct {
	journal  *journal.Journal
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
}

// New dials a sarama sync producer and wires it to the outbox.
func New(j *journal.Journal, brokers []string, topic string) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithProducer(j, producer, topic), nil
}

// NewWithProducer accepts an injected producer (tests use sarama/mocks).
func NewWithProducer(j *journal.Journal, producer sarama.SyncProducer, topic string) *Broadcaster {
	return &Broadcaster{
		journal:  j,
		producer: producer,
		topic:    topic,
		interval: 250 * time.Millisecond,
	}
}

// Run rebroadcasts on a ticker until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	log.Println("[broadcaster] started")

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.BroadcastOnce()
		}
	}
}

// BroadcastOnce publishes every NEW and every previously FAILED entry.
// A send failure leaves the entry FAILED for the next tick; there is no
// terminal give-up, unacked reports keep retrying.
func (b *Broadcaster) BroadcastOnce() {
	b.scanAndSend(journal.StateNew)
	b.scanAndSend(journal.StateFailed)
}

func (b *Broadcaster) scanAndSend(state journal.State) {
	_ = b.journal.ScanByState(state, func(seq uint64, e journal.Entry) error {
		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.ByteEncoder(seqKey(seq)),
			Value: sarama.ByteEncoder(e.Frame),
		}

		if _, _, err := b.producer.SendMessage(msg); err != nil {
			_ = b.journal.MarkFailed(seq)
			return nil // keep scanning; retry next tick
		}
		return b.journal.MarkSent(seq)
	})
}

// Ack records downstream acknowledgement for seq and drops the entry.
func (b *Broadcaster) Ack(seq uint64) error {
	if err := b.journal.MarkAcked(seq); err != nil {
		return err
	}
	return b.journal.Delete(seq)
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
