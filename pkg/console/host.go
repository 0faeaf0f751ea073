package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/go-dap"
)

// StdioHost is the standalone session host: it renders response bodies and
// stopped events as plain console output. Safe for concurrent use, since
// async send loops report through it.
type StdioHost struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStdioHost(w io.Writer) *StdioHost {
	return &StdioHost{w: w}
}

func (h *StdioHost) Write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprint(h.w, s)
}

func (h *StdioHost) WriteLine(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.w, s)
}

func (h *StdioHost) SendResponse(body dap.EvaluateResponseBody) {
	if body.Result == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.w, body.Result)
}

func (h *StdioHost) SendEvent(ev dap.EventMessage) {
	stopped, ok := ev.(*dap.StoppedEvent)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "(stopped: %s)\n", stopped.Body.Reason)
}
