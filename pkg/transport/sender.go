package transport

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"
)

// Sender pushes framed payloads to a peer bridge instance. One connection
// carries exactly one message.
type Sender struct {
	retries    int
	retryDelay time.Duration
}

func NewSender() *Sender {
	return &Sender{retries: 3, retryDelay: time.Second}
}

// Send opens an outbound connection, writes the 4-byte little-endian length
// prefix plus the payload and closes. The caller is responsible for
// serializing sends per destination.
func (s *Sender) Send(address string, port int, payload []byte) error {
	addr := net.JoinHostPort(address, fmt.Sprintf("%d", port))
	conn, err := DialWithRetry(addr, s.retries, s.retryDelay)
	if err != nil {
		return fmt.Errorf("send to %s: %w", addr, err)
	}
	defer conn.Close()

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := conn.Write(header[:]); err != nil {
		return fmt.Errorf("send to %s: write header: %w", addr, err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("send to %s: write payload: %w", addr, err)
	}
	return nil
}
