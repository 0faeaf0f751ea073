package transport

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

// HTTPListener accepts the same payloads as Listener via POST bodies; the
// framing is implicit in HTTP's content length.
type HTTPListener struct {
	maxMessageSize int
	handler        MessageHandler
	log            *log.Logger
}

func NewHTTPListener(maxMessageSize int, handler MessageHandler, logger *log.Logger) *HTTPListener {
	if maxMessageSize <= 0 {
		maxMessageSize = DefaultMaxMessageSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPListener{maxMessageSize: maxMessageSize, handler: handler, log: logger}
}

// Serve binds the HTTP port and serves until ctx is cancelled. Bind
// failures are returned to the caller.
func (h *HTTPListener) Serve(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           http.HandlerFunc(h.serveHTTP),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("could not start http listener on %s: %w", srv.Addr, err)
	}
	h.log.Printf("Listening for debug entries (http) on %s", srv.Addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (h *HTTPListener) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		// Close without reading a body; non-POST traffic gets no service.
		w.Header().Set("Connection", "close")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, int64(h.maxMessageSize)+1))
	if err != nil {
		h.log.Printf("%s: error reading http body: %v", r.RemoteAddr, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		h.log.Printf("%s: empty http body, dropping", r.RemoteAddr)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(body) > h.maxMessageSize {
		h.log.Printf("%s: http body size %d exceeds limit, dropping", r.RemoteAddr, len(body))
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	remoteAddr, remotePort := splitHostPortString(r.RemoteAddr)
	h.handler(body, remoteAddr, remotePort)
	w.WriteHeader(http.StatusNoContent)
}

func splitHostPortString(hostport string) (string, int) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, 0
	}
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return host, port
}
