package server

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/duskdb/duskdb/internal/resp"
	"github.com/duskdb/duskdb/internal/respcodec"
)

// Socket tuning, grounded on the spec's section 4.4 connection-handling
// walkthrough: short read/write deadlines so a slow or dead peer cannot
// tie up a worker goroutine indefinitely, and TCP keepalive to reclaim
// connections whose far end vanished without a FIN.
const (
	readWriteDeadline = 30 * time.Second
	keepAliveIdle     = 60 * time.Second
	keepAliveInterval = 10 * time.Second
	keepAliveCount    = 3

	initialBufSize = 4 * 1024
	maxBufSize     = 4 * 1024 * 1024
	scratchSize    = 8 * 1024
)

// Peer represents a connected client. It owns an accumulation buffer that
// grows as needed up to maxBufSize and is fed by repeated scratch-sized
// reads, per spec.md section 4.4: frames are extracted from the
// accumulation buffer by respcodec without ever blocking mid-frame on a
// fresh socket read.
type Peer struct {
	conn   net.Conn
	writer *resp.Encoder
	mu     sync.Mutex

	buf     []byte // accumulated, not-yet-parsed bytes
	scratch []byte

	authenticated bool
}

// NewPeer initializes a new client peer from a network connection and
// applies the connection's socket options.
func NewPeer(conn net.Conn) *Peer {
	applySocketOptions(conn)

	return &Peer{
		conn:          conn,
		writer:        resp.NewEncoder(conn),
		buf:           make([]byte, 0, initialBufSize),
		scratch:       make([]byte, scratchSize),
		authenticated: false,
	}
}

func applySocketOptions(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	tcpConn.SetNoDelay(true) //nolint:errcheck
	tcpConn.SetKeepAliveConfig(net.KeepAliveConfig{
		Enable:   true,
		Idle:     keepAliveIdle,
		Interval: keepAliveInterval,
		Count:    keepAliveCount,
	}) //nolint:errcheck
}

// ErrBufferOverflow is returned when the accumulation buffer has reached
// maxBufSize (4 MiB) without yielding a complete frame.
var ErrBufferOverflow = errors.New("peer: accumulation buffer exceeded maximum size")

// ReadFrames blocks on the socket until at least one complete RESP frame
// is available, then returns every complete frame currently buffered as
// tokenized argument vectors. It implements spec.md section 4.4's read
// loop: grow the accumulation buffer, hand it to respcodec.Split, and
// only consume the bytes that Split reports as belonging to complete
// frames.
func (p *Peer) ReadFrames() ([][][]byte, error) {
	for {
		frames, consumed, badFrameLen, err := respcodec.Split(p.buf)
		if err != nil && !errors.Is(err, respcodec.ErrProtocol) {
			return nil, err
		}

		if len(frames) > 0 || errors.Is(err, respcodec.ErrProtocol) {
			// respcodec.Parse's tokens are subranges of p.buf, which the
			// compaction below overwrites in place; copy them out first
			// so the caller gets stable, owned byte slices.
			parsed := make([][][]byte, len(frames))
			for i, f := range frames {
				tokens := respcodec.Parse(f)
				owned := make([][]byte, len(tokens))
				for j, t := range tokens {
					owned[j] = append([]byte(nil), t...)
				}
				parsed[i] = owned
			}

			total := consumed
			if errors.Is(err, respcodec.ErrProtocol) {
				total += badFrameLen
			}
			p.buf = append(p.buf[:0], p.buf[total:]...)

			if errors.Is(err, respcodec.ErrProtocol) {
				return parsed, respcodec.ErrProtocol
			}
			return parsed, nil
		}

		if err := p.fill(); err != nil {
			return nil, err
		}
	}
}

// fill reads more bytes from the socket into the accumulation buffer,
// growing it (up to maxBufSize) as needed.
func (p *Peer) fill() error {
	if len(p.buf) >= maxBufSize {
		return ErrBufferOverflow
	}

	if err := p.conn.SetReadDeadline(time.Now().Add(readWriteDeadline)); err != nil {
		return err
	}

	n, err := p.conn.Read(p.scratch)
	if n > 0 {
		p.buf = append(p.buf, p.scratch[:n]...)
	}
	if err != nil {
		return err
	}
	return nil
}

// Send encodes and writes a RESP value to the client. Thread-safe: may be
// called from multiple goroutines.
func (p *Peer) Send(v resp.Value) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writer.Write(v)
}

// Flush sends all buffered data to the client, applying a write deadline
// so a stalled peer cannot block the worker forever.
func (p *Peer) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(readWriteDeadline)); err != nil {
		return err
	}
	return p.writer.Flush()
}

// RemoteAddr reports the client's network address.
func (p *Peer) RemoteAddr() net.Addr {
	return p.conn.RemoteAddr()
}

// Close terminates the underlying network connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}
