// Package ingress accepts order frames over TCP. Each connection is a
// length-framed stream of fixed 25-byte order frames; frames are handed
// to the sink as they arrive, the sink owns validation and queueing.
package ingress

import (
	"errors"
	"io"
	"log"
	"net"
	"sync"

	"nanomatch/api/wire"
)

// Sink consumes one complete order frame. The buffer is only valid for
// the duration of the call; implementations must not retain it.
type Sink func(frame []byte) error

type Listener struct {
	ln   net.Listener
	sink Sink

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// Listen binds addr and starts accepting connections.
func Listen(addr string, sink Sink) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		ln:    ln,
		sink:  sink,
		conns: make(map[net.Conn]struct{}),
	}

	l.wg.Add(1)
	go l.acceptLoop()

	log.Printf("[ingress] listening on %s", ln.Addr())
	return l, nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *Listener) acceptLoop() {
	defer l.wg.Done()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("[ingress] accept: %v", err)
			continue
		}

		l.mu.Lock()
		l.conns[conn] = struct{}{}
		l.mu.Unlock()

		l.wg.Add(1)
		go l.serve(conn)
	}
}

func (l *Listener) serve(conn net.Conn) {
	defer l.wg.Done()
	defer func() {
		l.mu.Lock()
		delete(l.conns, conn)
		l.mu.Unlock()
		conn.Close()
	}()

	buf := make([]byte, wire.OrderFrameLength)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Printf("[ingress] read: %v", err)
			}
			return
		}
		if err := l.sink(buf); err != nil {
			// Invalid frame. The stream itself is still aligned, so
			// log and keep reading.
			log.Printf("[ingress] frame rejected: %v", err)
		}
	}
}

// Close stops accepting, closes live connections and waits for the
// per-connection readers to drain.
func (l *Listener) Close() error {
	err := l.ln.Close()

	l.mu.Lock()
	for conn := range l.conns {
		conn.Close()
	}
	l.mu.Unlock()

	l.wg.Wait()
	return err
}
