// Package plugins defines the capability contract extension plugins satisfy
// and the ordered pipeline the session runs them in.
package plugins

import (
	"fmt"
	"sort"
	"strings"

	"rdbridge/pkg/entry"
)

// Plugin is the base contract. Concrete plugins additionally implement any
// subset of the capability interfaces below; callers check capabilities with
// explicit type assertions, never by reflection.
type Plugin interface {
	// Name is the canonical (lowercase) plugin name.
	Name() string
}

// Commander exposes named console commands reachable via "exec".
type Commander interface {
	Plugin
	// Commands lists the command names this plugin answers to.
	Commands() []string
	// Execute runs a command. The returned string becomes the response body.
	Execute(cmd string, args []string) (string, error)
}

// EntryDropper can veto admission of an entry.
type EntryDropper interface {
	Plugin
	// DropEntry returns true to reject the entry.
	DropEntry(e *entry.Entry) bool
}

// EntryProcessor can mutate or annotate an entry during ingestion.
type EntryProcessor interface {
	Plugin
	// ProcessEntry returns true to stop further plugin processing for this
	// entry. Admission checks still run afterwards.
	ProcessEntry(e *entry.Entry) bool
}

// MessageRestorer undoes a sender-side message transform (e.g. decompression).
type MessageRestorer interface {
	Plugin
	RestoreMessage(data []byte) ([]byte, error)
}

// MessageTransformer applies an outbound message transform (e.g. compression).
type MessageTransformer interface {
	Plugin
	TransformMessage(data []byte) ([]byte, error)
}

// Describer provides a human-readable one-liner for the "plugins" command.
type Describer interface {
	Plugin
	Info() string
}

// Registration binds a configured plugin instance to its identity. The
// session owns the ordered registration list for its lifetime; plugins are
// loaded once at launch and never reloaded.
type Registration struct {
	File   string
	Name   string
	Plugin Plugin
}

// Factory constructs a plugin from its config options.
type Factory func(options map[string]string) (Plugin, error)

var factories = map[string]Factory{}

// Register makes a built-in plugin constructible by name. Called from
// package init functions.
func Register(name string, f Factory) {
	factories[strings.ToLower(name)] = f
}

// Available lists registered factory names, sorted.
func Available() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load resolves a configured plugin name against the registry. Unknown
// names are fatal to session launch.
func Load(name string, options map[string]string) (Registration, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	f, ok := factories[key]
	if !ok {
		return Registration{}, fmt.Errorf("plugin %q not found (available: %s)",
			name, strings.Join(Available(), ", "))
	}
	p, err := f(options)
	if err != nil {
		return Registration{}, fmt.Errorf("plugin %q failed to load: %w", name, err)
	}
	return Registration{File: key, Name: key, Plugin: p}, nil
}

// Transform runs every MessageTransformer in registration order. This is the
// outbound direction; Restore mirrors it in reverse so a transform chain
// round-trips.
func Transform(regs []Registration, data []byte) ([]byte, error) {
	for _, r := range regs {
		t, ok := r.Plugin.(MessageTransformer)
		if !ok {
			continue
		}
		out, err := t.TransformMessage(data)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: transform: %w", r.Name, err)
		}
		data = out
	}
	return data, nil
}

// Restore runs every MessageRestorer in reverse registration order,
// undoing the sender-side Transform chain.
func Restore(regs []Registration, data []byte) ([]byte, error) {
	for i := len(regs) - 1; i >= 0; i-- {
		rest, ok := regs[i].Plugin.(MessageRestorer)
		if !ok {
			continue
		}
		out, err := rest.RestoreMessage(data)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: restore: %w", regs[i].Name, err)
		}
		data = out
	}
	return data, nil
}

// Process runs EntryProcessor hooks in registration order, stopping after
// the first hook that returns true.
func Process(regs []Registration, e *entry.Entry) {
	for _, r := range regs {
		p, ok := r.Plugin.(EntryProcessor)
		if !ok {
			continue
		}
		if p.ProcessEntry(e) {
			return
		}
	}
}

// ShouldDrop runs EntryDropper hooks in registration order; any true result
// vetoes admission.
func ShouldDrop(regs []Registration, e *entry.Entry) bool {
	for _, r := range regs {
		d, ok := r.Plugin.(EntryDropper)
		if !ok {
			continue
		}
		if d.DropEntry(e) {
			return true
		}
	}
	return false
}
