// Package entry defines the debug snapshot model exchanged over the wire.
//
// The JSON field names are deliberately short; they match the frame format
// instrumented applications emit and are part of the wire contract.
package entry

import (
	"encoding/json"
	"strings"
	"time"
)

// Variable is a single captured variable. A nonzero Ref marks it as
// structured (expandable); Type carries the declared type tag such as
// "array", "object", "function" or a primitive name.
type Variable struct {
	FuncName   string          `json:"fn,omitempty"`
	Name       string          `json:"n,omitempty"`
	ObjectName string          `json:"on,omitempty"`
	Ref        int             `json:"r,omitempty"`
	Type       string          `json:"t,omitempty"`
	Value      json.RawMessage `json:"v,omitempty"`
}

// Scope groups variables under a stack frame. Ref is the reference id used
// to resolve child variables.
type Scope struct {
	Name      string      `json:"n,omitempty"`
	Ref       int         `json:"r,omitempty"`
	Variables []*Variable `json:"v,omitempty"`
}

// StackFrame is one frame of the captured call stack.
//
// LegacyLine ("l") is accepted on input for senders that predate the "ln"
// key; Line wins when both are present.
type StackFrame struct {
	File       string      `json:"f,omitempty"`
	FileName   string      `json:"fn,omitempty"`
	ID         int         `json:"i,omitempty"`
	LegacyLine int         `json:"l,omitempty"`
	Line       int         `json:"ln,omitempty"`
	FuncName   string      `json:"n,omitempty"`
	Scopes     []*Scope    `json:"s,omitempty"`
	Variables  []*Variable `json:"v,omitempty"`
}

// EffectiveLine returns the frame line, falling back to the legacy key.
func (f *StackFrame) EffectiveLine() int {
	if f.Line != 0 {
		return f.Line
	}
	return f.LegacyLine
}

// Thread is one thread of the captured snapshot.
type Thread struct {
	ID   int    `json:"i,omitempty"`
	Name string `json:"n,omitempty"`
}

// LogRecord is one operator annotation on an entry. Records are append-only.
type LogRecord struct {
	Author  string    `json:"author,omitempty"`
	Message string    `json:"message,omitempty"`
	Time    time.Time `json:"time"`
}

// Origin records where an entry came from. It is stamped once on first
// admission and never overwritten afterwards.
type Origin struct {
	Address string    `json:"address,omitempty"`
	Port    int       `json:"port,omitempty"`
	Time    time.Time `json:"time"`
}

// Entry is one captured debug snapshot.
//
// Entries are immutable after admission except for Note (console "set" /
// "unset") and Logs (console "log"), both mutated only through commands
// against the current entry.
type Entry struct {
	App       string        `json:"a,omitempty"`
	Client    string        `json:"c,omitempty"`
	File      string        `json:"f,omitempty"`
	Note      string        `json:"n,omitempty"`
	Stack     []*StackFrame `json:"s,omitempty"`
	Threads   []*Thread     `json:"t,omitempty"`
	Variables []*Variable   `json:"v,omitempty"`

	Logs       []LogRecord `json:"__logs,omitempty"`
	Origin     *Origin     `json:"__origin,omitempty"`
	ReceivedAt time.Time   `json:"__received,omitempty"`
}

// Parse decodes a wire payload into an Entry.
func Parse(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Stamp sets the receipt time and origin record on first admission. An
// entry forwarded by another bridge keeps its original stamps.
func (e *Entry) Stamp(addr string, port int, now time.Time) {
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = now
	}
	if e.Origin == nil {
		e.Origin = &Origin{Address: addr, Port: port, Time: now}
	}
}

// AddLog appends an annotation record.
func (e *Entry) AddLog(author, message string, now time.Time) {
	e.Logs = append(e.Logs, LogRecord{Author: author, Message: message, Time: now})
}

// Summary returns a one-line description used by list-style commands.
func (e *Entry) Summary() string {
	var parts []string
	if e.App != "" {
		parts = append(parts, e.App)
	}
	if e.Client != "" {
		parts = append(parts, "@"+e.Client)
	}
	if e.File != "" {
		parts = append(parts, e.File)
	}
	if len(e.Stack) > 0 {
		top := e.Stack[0]
		if top.FuncName != "" {
			parts = append(parts, top.FuncName+"()")
		}
	}
	if e.Note != "" {
		parts = append(parts, "// "+e.Note)
	}
	if len(parts) == 0 {
		return "<empty entry>"
	}
	return strings.Join(parts, " ")
}

// Marshal encodes the entry back to its wire form.
func (e *Entry) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
