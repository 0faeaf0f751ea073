// Package session holds the mutable bridge state: the entry store, the
// favorites index, the navigation cursor and the ingestion gates. A single
// Session is shared by the ingestion chain and the console engine; callers
// serialize access by locking around each ingestion event or console command.
package session

import (
	"sort"
	"sync"

	"github.com/google/go-dap"
	"github.com/google/uuid"

	"rdbridge/pkg/entry"
	"rdbridge/pkg/plugins"
)

// Host is the collaborator the session reports to: the debug-adapter side
// in IDE mode, a console sink in standalone mode.
type Host interface {
	// Write emits streamed output without a trailing newline.
	Write(s string)
	// WriteLine emits one line of streamed output.
	WriteLine(s string)
	// SendResponse delivers the body of a completed console command.
	SendResponse(body dap.EvaluateResponseBody)
	// SendEvent delivers a navigation notification (stopped events).
	SendEvent(ev dap.EventMessage)
}

// Favorite bookmarks an entry under its 1-based store index at bookmark
// time. Indices are unique and kept sorted ascending.
type Favorite struct {
	Index int
	Entry *entry.Entry
}

// Session is the shared state of one bridge run.
type Session struct {
	sync.Mutex

	ID uuid.UUID

	entries   []*entry.Entry
	favorites []Favorite
	cursor    int // -1 until something is selected; len(entries) = past the end

	paused bool
	debug  bool

	counterActive bool
	counter       int
	counterStart  int

	nick           string
	sourceRoot     string
	filenameFormat string
	apps           []string
	clients        []string
	friends        []Friend
	regs           []plugins.Registration

	host Host
}

// Options carries the launch-time configuration of a session.
type Options struct {
	Nick           string
	SourceRoot     string
	FilenameFormat string
	Apps           []string
	Clients        []string
	Friends        []Friend
	Plugins        []plugins.Registration
	Counter        int
	Paused         bool
	Debug          bool
}

// New creates a session. The plugin list order is fixed for the session
// lifetime.
func New(host Host, opts Options) *Session {
	s := &Session{
		ID:             uuid.New(),
		cursor:         -1,
		nick:           opts.Nick,
		sourceRoot:     opts.SourceRoot,
		filenameFormat: opts.FilenameFormat,
		apps:           normalizeList(opts.Apps),
		clients:        normalizeList(opts.Clients),
		friends:        opts.Friends,
		regs:           opts.Plugins,
		paused:         opts.Paused,
		debug:          opts.Debug,
		host:           host,
	}
	if opts.Counter > 0 {
		s.counterActive = true
		s.counter = opts.Counter
		s.counterStart = opts.Counter
	}
	return s
}

func (s *Session) Host() Host { return s.host }

// Entries returns the live entry slice. Callers must hold the session lock.
func (s *Session) Entries() []*entry.Entry { return s.entries }

// SetEntries replaces the store wholesale (used by trim and clear).
func (s *Session) SetEntries(list []*entry.Entry) { s.entries = list }

// Favorites returns the live favorites slice, sorted ascending by index.
func (s *Session) Favorites() []Favorite { return s.favorites }

func (s *Session) SetFavorites(list []Favorite) {
	sort.Slice(list, func(i, j int) bool { return list[i].Index < list[j].Index })
	s.favorites = list
}

// CurrentIndex returns the cursor. -1 means nothing has been selected yet.
func (s *Session) CurrentIndex() int { return s.cursor }

func (s *Session) SetCurrentIndex(i int) { s.cursor = i }

// CurrentEntry returns the selected entry, or nil at the past-the-end
// sentinel and before the first selection.
func (s *Session) CurrentEntry() *entry.Entry {
	if s.cursor < 0 || s.cursor >= len(s.entries) {
		return nil
	}
	return s.entries[s.cursor]
}

// GotoIndex clamps idx into [0, len(entries)] and moves the cursor there,
// then notifies the host: a real entry fires a "step" stop, the past-the-end
// sentinel fires a "pause" stop. Every navigation command funnels through
// here; it is the single place the cursor invariant is enforced.
func (s *Session) GotoIndex(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.entries) {
		idx = len(s.entries)
	}
	s.cursor = idx
	reason := "pause"
	if s.CurrentEntry() != nil {
		reason = "step"
	}
	s.host.SendEvent(stoppedEvent(reason))
}

func stoppedEvent(reason string) *dap.StoppedEvent {
	return &dap.StoppedEvent{
		Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{Type: "event"},
			Event:           "stopped",
		},
		Body: dap.StoppedEventBody{
			Reason:            reason,
			ThreadId:          1,
			AllThreadsStopped: true,
		},
	}
}

// Admit appends an entry to the store. When nothing was selected before
// (cursor past the end or never set), the new entry becomes current and a
// "step" stop is fired; otherwise the cursor is left untouched.
func (s *Session) Admit(e *entry.Entry) {
	selected := s.CurrentEntry() != nil
	s.entries = append(s.entries, e)
	if !selected {
		s.GotoIndex(len(s.entries) - 1)
	}
}

// Clear drops all entries and favorites and resets the cursor.
func (s *Session) Clear() {
	s.entries = nil
	s.favorites = nil
	s.cursor = 0
}

func (s *Session) IsPaused() bool     { return s.paused }
func (s *Session) SetPaused(p bool)   { s.paused = p }
func (s *Session) IsDebug() bool      { return s.debug }
func (s *Session) SetDebug(d bool)    { s.debug = d }
func (s *Session) CounterStart() int   { return s.counterStart }
func (s *Session) CounterActive() bool { return s.counterActive }

// Counter returns the remaining countdown, or -1 when no counter is active.
func (s *Session) Counter() int {
	if !s.counterActive {
		return -1
	}
	return s.counter
}

// SetCounter arms the countdown gate: ingestion pauses after n more entries.
func (s *Session) SetCounter(n int) {
	s.counterActive = true
	s.counter = n
	s.counterStart = n
}

// DisableCounter disarms the gate without touching the pause flag.
func (s *Session) DisableCounter() { s.counterActive = false }

// ResetCounter re-arms the gate at its start value. Returns false when no
// start value was ever configured.
func (s *Session) ResetCounter() bool {
	if s.counterStart <= 0 {
		return false
	}
	s.counterActive = true
	s.counter = s.counterStart
	return true
}

// TickCounter advances the countdown for one arriving entry. It returns
// true when the gate rejects the entry: the counter had already reached
// zero, so the session flips to paused and the entry is dropped.
func (s *Session) TickCounter() bool {
	if !s.counterActive {
		return false
	}
	if s.counter <= 0 {
		s.paused = true
		s.counterActive = false
		return true
	}
	s.counter--
	return false
}

// Apps returns the lowercase app allow-list (empty = allow all).
func (s *Session) Apps() []string { return s.apps }

// Clients returns the lowercase client allow-list (empty = allow all).
func (s *Session) Clients() []string { return s.clients }

func (s *Session) Nick() string           { return s.nick }
func (s *Session) SourceRoot() string     { return s.sourceRoot }
func (s *Session) FilenameFormat() string { return s.filenameFormat }

func (s *Session) Friends() []Friend { return s.friends }

func (s *Session) Plugins() []plugins.Registration { return s.regs }

// AddFavorite bookmarks the entry at the 1-based index. Duplicate indices
// are a no-op; the list stays sorted. Returns false for out-of-range
// indices.
func (s *Session) AddFavorite(index int) bool {
	if index < 1 || index > len(s.entries) {
		return false
	}
	for _, f := range s.favorites {
		if f.Index == index {
			return true
		}
	}
	s.favorites = append(s.favorites, Favorite{Index: index, Entry: s.entries[index-1]})
	sort.Slice(s.favorites, func(i, j int) bool { return s.favorites[i].Index < s.favorites[j].Index })
	return true
}

// RemoveFavorite drops the bookmark at the 1-based index, reporting whether
// one existed.
func (s *Session) RemoveFavorite(index int) bool {
	for i, f := range s.favorites {
		if f.Index == index {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return true
		}
	}
	return false
}

// FavoriteAll replaces the favorites list with every entry, 1..N.
func (s *Session) FavoriteAll() {
	s.favorites = make([]Favorite, 0, len(s.entries))
	for i, e := range s.entries {
		s.favorites = append(s.favorites, Favorite{Index: i + 1, Entry: e})
	}
}

// ClearFavorites drops all bookmarks, leaving the entry store alone.
func (s *Session) ClearFavorites() { s.favorites = nil }

// Trim rewrites the store to contain only favorited entries in their
// original relative order and renumbers the favorites 1..M to match. The
// cursor is clamped onto the new store.
func (s *Session) Trim() {
	kept := make([]*entry.Entry, 0, len(s.favorites))
	favs := make([]Favorite, 0, len(s.favorites))
	for _, f := range s.favorites {
		kept = append(kept, f.Entry)
		favs = append(favs, Favorite{Index: len(kept), Entry: f.Entry})
	}
	s.entries = kept
	s.favorites = favs
	if s.cursor > len(s.entries) {
		s.cursor = len(s.entries)
	}
}

func (s *Session) Write(text string)     { s.host.Write(text) }
func (s *Session) WriteLine(text string) { s.host.WriteLine(text) }

// SendResponse delivers a command result body to the host.
func (s *Session) SendResponse(result string) {
	s.host.SendResponse(dap.EvaluateResponseBody{Result: result})
}

func normalizeList(in []string) []string {
	var out []string
	for _, v := range in {
		v = normalizeName(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
