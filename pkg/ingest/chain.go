// Package ingest decides whether an arriving message becomes a stored
// entry. Every gate runs in a fixed order and any of them can veto
// admission; the sender never gets feedback either way.
package ingest

import (
	"log"
	"strings"
	"time"

	"rdbridge/pkg/entry"
	"rdbridge/pkg/plugins"
	"rdbridge/pkg/session"
)

// Chain applies the admission pipeline to raw messages from the transport.
type Chain struct {
	sess *session.Session
	log  *log.Logger
}

func New(sess *session.Session, logger *log.Logger) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	return &Chain{sess: sess, log: logger}
}

// HandleMessage is the transport callback. It runs the full filter chain
// under the session lock so ingestion events and console commands never
// interleave.
func (c *Chain) HandleMessage(data []byte, remoteAddr string, remotePort int) {
	c.sess.Lock()
	defer c.sess.Unlock()

	regs := c.sess.Plugins()

	// Undo the sender-side transform chain, last-registered plugin first.
	restored, err := plugins.Restore(regs, data)
	if err != nil {
		c.debugf("message from %s dropped: %v", remoteAddr, err)
		return
	}

	e, err := entry.Parse(restored)
	if err != nil {
		c.debugf("message from %s dropped: invalid json: %v", remoteAddr, err)
		return
	}

	e.Stamp(remoteAddr, remotePort, time.Now())

	plugins.Process(regs, e)

	if c.sess.IsPaused() {
		c.debugf("entry from %s rejected: session paused", remoteAddr)
		return
	}
	if c.sess.TickCounter() {
		c.debugf("entry from %s rejected: counter reached zero, pausing", remoteAddr)
		return
	}
	if !allowed(e.Client, c.sess.Clients()) {
		c.debugf("entry from %s rejected: client %q not allowed", remoteAddr, e.Client)
		return
	}
	if !allowed(e.App, c.sess.Apps()) {
		c.debugf("entry from %s rejected: app %q not allowed", remoteAddr, e.App)
		return
	}
	if plugins.ShouldDrop(regs, e) {
		c.debugf("entry from %s rejected by plugin", remoteAddr)
		return
	}

	c.sess.Admit(e)
	c.debugf("entry %d admitted from %s", len(c.sess.Entries()), remoteAddr)
}

// allowed applies an allow-list gate: it only bites when the entry declares
// a name and a non-empty list is configured.
func allowed(name string, list []string) bool {
	if name == "" || len(list) == 0 {
		return true
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func (c *Chain) debugf(format string, args ...any) {
	if c.sess.IsDebug() {
		c.log.Printf(format, args...)
	}
}
