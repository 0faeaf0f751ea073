package transport

import (
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConnectionClosedError(t *testing.T) {
	assert.False(t, IsConnectionClosedError(nil))
	assert.False(t, IsConnectionClosedError(fmt.Errorf("dial tcp: connection refused")))

	assert.True(t, IsConnectionClosedError(io.EOF))
	assert.True(t, IsConnectionClosedError(fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)))
	assert.True(t, IsConnectionClosedError(io.ErrClosedPipe))
	assert.True(t, IsConnectionClosedError(net.ErrClosed))
	assert.True(t, IsConnectionClosedError(&net.OpError{Op: "read", Err: syscall.ECONNRESET}))
	assert.True(t, IsConnectionClosedError(&net.OpError{Op: "write", Err: syscall.EPIPE}))
}
