package transport

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsConnectionClosedError distinguishes normal connection closes from
// actual transport errors so the listener can log them apart. It covers the
// shapes the framed protocol produces: EOF variants from the reassembly
// loop, closed sockets and pipes, and peer resets.
func IsConnectionClosedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE)
}
