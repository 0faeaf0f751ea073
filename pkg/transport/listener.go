// Package transport implements the framed wire protocol: a TCP listener and
// outbound sender exchanging [uint32 LE length][payload] messages, plus an
// HTTP ingestion variant where the body carries the payload unframed.
package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxMessageSize bounds a single framed payload.
const DefaultMaxMessageSize = 16777215

// MessageHandler receives one fully reassembled payload together with the
// sender endpoint.
type MessageHandler func(data []byte, remoteAddr string, remotePort int)

// Listener accepts framed TCP messages. The protocol is fire-and-forget:
// malformed, oversized or truncated messages are dropped without any reply
// to the sender.
type Listener struct {
	maxMessageSize int
	handler        MessageHandler
	log            *log.Logger
}

// NewListener creates a listener delivering messages to handler. A
// maxMessageSize of 0 selects the default.
func NewListener(maxMessageSize int, handler MessageHandler, logger *log.Logger) *Listener {
	if maxMessageSize <= 0 {
		maxMessageSize = DefaultMaxMessageSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Listener{maxMessageSize: maxMessageSize, handler: handler, log: logger}
}

// Serve binds the TCP port and accepts connections until ctx is cancelled.
// A bind failure is returned to the caller; errors on individual
// connections are logged and never stop the accept loop.
func (l *Listener) Serve(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not start listener on %s: %w", addr, err)
	}
	defer ln.Close()
	l.log.Printf("Listening for debug entries on %s", addr)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.log.Printf("Error accepting connection: %v", err)
			continue
		}
		go l.handleConn(conn)
	}
}

// handleConn reassembles one framed message per connection: a 4-byte
// little-endian length, then the payload, delivered once the peer signals
// end-of-stream with the buffer fully populated.
func (l *Listener) handleConn(conn net.Conn) {
	connID := uuid.NewString()[:8]
	remoteAddr, remotePort := splitRemote(conn.RemoteAddr())
	defer conn.Close()

	var header [4]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		if IsConnectionClosedError(err) {
			l.log.Printf("[%s] %s: connection closed before a full header", connID, remoteAddr)
		} else {
			l.log.Printf("[%s] %s: error reading header, dropping: %v", connID, remoteAddr, err)
		}
		return
	}
	length := int(int32(binary.LittleEndian.Uint32(header[:])))
	if length < 1 || length > l.maxMessageSize {
		l.log.Printf("[%s] %s: declared length %d out of bounds, dropping", connID, remoteAddr, length)
		return
	}

	buf := make([]byte, 0, length)
	chunk := make([]byte, 4096)
	for len(buf) < length {
		n, err := conn.Read(chunk)
		if n > 0 {
			room := length - len(buf)
			if n > room {
				n = room
			}
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	if len(buf) != length {
		l.log.Printf("[%s] %s: truncated message (%d/%d bytes), dropping", connID, remoteAddr, len(buf), length)
		return
	}
	l.log.Printf("[%s] %s: received %d byte message", connID, remoteAddr, length)
	l.handler(buf, remoteAddr, remotePort)
}

func splitRemote(addr net.Addr) (string, int) {
	if addr == nil {
		return "", 0
	}
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// DialWithRetry attempts to connect to a peer with retry logic.
func DialWithRetry(addr string, maxRetries int, delay time.Duration) (net.Conn, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, lastErr)
}
