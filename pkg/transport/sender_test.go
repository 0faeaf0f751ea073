package transport

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderFramesPayload(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	payload := []byte(`{"a":"outbound"}`)
	require.NoError(t, NewSender().Send("127.0.0.1", port, payload))

	select {
	case data := <-received:
		require.GreaterOrEqual(t, len(data), 4)
		assert.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(data[:4]))
		assert.Equal(t, payload, data[4:])
	case <-time.After(5 * time.Second):
		t.Fatal("no data received")
	}
}

func TestSenderFailsWhenPeerUnreachable(t *testing.T) {
	s := &Sender{retries: 1, retryDelay: time.Millisecond}
	err := s.Send("127.0.0.1", 1, []byte("x"))
	assert.Error(t, err)
}
