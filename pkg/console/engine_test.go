package console

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdbridge/pkg/entry"
	"rdbridge/pkg/session"
)

// testHost records everything the engine emits. Mutex'd because async send
// loops report through the host from their own goroutines.
type testHost struct {
	mu     sync.Mutex
	lines  []string
	bodies []string
	stops  []string
}

func (h *testHost) Write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, s)
}

func (h *testHost) WriteLine(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, s)
}

func (h *testHost) SendResponse(body dap.EvaluateResponseBody) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bodies = append(h.bodies, body.Result)
}

func (h *testHost) SendEvent(ev dap.EventMessage) {
	stopped, ok := ev.(*dap.StoppedEvent)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stops = append(h.stops, stopped.Body.Reason)
}

func (h *testHost) lastBody() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.bodies) == 0 {
		return ""
	}
	return h.bodies[len(h.bodies)-1]
}

func (h *testHost) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = nil
	h.bodies = nil
	h.stops = nil
}

func newTestEngine(opts session.Options, entries ...*entry.Entry) (*Engine, *session.Session, *testHost) {
	h := &testHost{}
	sess := session.New(h, opts)
	for _, e := range entries {
		sess.Admit(e)
	}
	h.reset()
	return New(sess, "test"), sess, h
}

func someEntries(n int) []*entry.Entry {
	out := make([]*entry.Entry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &entry.Entry{App: fmt.Sprintf("app%d", i)})
	}
	return out
}

func TestEverySendsExactlyOneResponse(t *testing.T) {
	e, _, h := newTestEngine(session.Options{}, someEntries(2)...)
	for _, line := range []string{"state", "first", "", "bogus input", "list"} {
		e.Execute(line)
	}
	assert.Len(t, h.bodies, 5)
}

func TestGotoClamps(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{}, someEntries(3)...)

	e.Execute("goto 0")
	assert.Equal(t, 0, sess.CurrentIndex())

	e.Execute("goto 53")
	assert.Equal(t, 3, sess.CurrentIndex())
	assert.Nil(t, sess.CurrentEntry())
}

func TestNavigationKeywords(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, someEntries(3)...)

	e.Execute("first")
	assert.Equal(t, 0, sess.CurrentIndex())
	assert.Equal(t, "step", h.stops[len(h.stops)-1])

	e.Execute("+")
	assert.Equal(t, 1, sess.CurrentIndex())

	e.Execute("-")
	assert.Equal(t, 0, sess.CurrentIndex())

	e.Execute("last")
	assert.Equal(t, 2, sess.CurrentIndex())

	e.Execute("continue")
	assert.Equal(t, 3, sess.CurrentIndex())
	assert.Equal(t, "pause", h.stops[len(h.stops)-1])
	assert.Contains(t, h.lastBody(), "Waiting past the last entry")

	e.Execute("refresh")
	assert.Equal(t, 3, sess.CurrentIndex())
}

func TestCommandsAreCaseInsensitive(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{}, someEntries(3)...)
	e.Execute("GOTO 2")
	assert.Equal(t, 1, sess.CurrentIndex())
	e.Execute("First")
	assert.Equal(t, 0, sess.CurrentIndex())
}

func TestListWindows(t *testing.T) {
	e, _, h := newTestEngine(session.Options{}, someEntries(5)...)

	e.Execute("list 0 2")
	require.Len(t, h.lines, 2)
	assert.Contains(t, h.lines[0], "1) app1")
	assert.Contains(t, h.lines[1], "2) app2")

	h.reset()
	e.Execute("list 10 2")
	assert.Empty(t, h.lines)
	assert.Equal(t, "No items found", h.lastBody())
}

func TestNewListsNewestFirst(t *testing.T) {
	e, _, h := newTestEngine(session.Options{}, someEntries(5)...)
	e.Execute("new 0 2")
	require.Len(t, h.lines, 2)
	assert.Contains(t, h.lines[0], "5) app5")
	assert.Contains(t, h.lines[1], "4) app4")
}

func TestAddIsIdempotent(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, someEntries(3)...)

	e.Execute("add 2")
	assert.Equal(t, "Added 1 favorite(s).", h.lastBody())

	e.Execute("add 2")
	assert.Equal(t, "Added 0 favorite(s).", h.lastBody())
	assert.Len(t, sess.Favorites(), 1)
}

func TestAddRangeAndDefaults(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, someEntries(5)...)

	e.Execute("add 2-4")
	assert.Len(t, sess.Favorites(), 3)

	// no ranges falls back to the current entry
	sess.Lock()
	sess.GotoIndex(0)
	sess.Unlock()
	e.Execute("add")
	assert.Len(t, sess.Favorites(), 4)

	// no ranges and no selection is a selection error
	e.Execute("clear")
	e.Execute("add")
	assert.Equal(t, "No entry selected.", h.lastBody())
}

func TestRemoveFavorites(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{}, someEntries(5)...)
	e.Execute("all")
	e.Execute("remove 2-3")
	require.Len(t, sess.Favorites(), 3)
	assert.Equal(t, 1, sess.Favorites()[0].Index)
	assert.Equal(t, 4, sess.Favorites()[1].Index)
	assert.Equal(t, 5, sess.Favorites()[2].Index)
}

func TestTrimScenario(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{}, someEntries(3)...)

	e.Execute("add 1,3")
	e.Execute("trim")

	require.Len(t, sess.Entries(), 2)
	assert.Equal(t, "app1", sess.Entries()[0].App)
	assert.Equal(t, "app3", sess.Entries()[1].App)
	require.Len(t, sess.Favorites(), 2)
	assert.Equal(t, 1, sess.Favorites()[0].Index)
	assert.Equal(t, 2, sess.Favorites()[1].Index)
}

func TestClearDropsEverything(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{}, someEntries(3)...)
	e.Execute("all")
	e.Execute("clear")
	assert.Empty(t, sess.Entries())
	assert.Empty(t, sess.Favorites())
	assert.Equal(t, 0, sess.CurrentIndex())
}

func TestNoneClearsOnlyFavorites(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{}, someEntries(3)...)
	e.Execute("all")
	e.Execute("none")
	assert.Empty(t, sess.Favorites())
	assert.Len(t, sess.Entries(), 3)
}

func TestTypoedCommandWordIsNotDispatched(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, someEntries(2)...)

	e.Execute("addx")
	assert.Contains(t, h.lastBody(), "Unknown command")
	assert.Empty(t, sess.Favorites(), "a typo'd add must not favorite anything")

	e.Execute("helpme")
	assert.Contains(t, h.lastBody(), "Unknown command")

	e.Execute("sharex")
	assert.Contains(t, h.lastBody(), "Unknown command")

	e.Execute("findx")
	assert.Contains(t, h.lastBody(), "Unknown command")
}

func TestUnknownCommandSuggestion(t *testing.T) {
	e, _, h := newTestEngine(session.Options{})
	e.Execute("lst")
	assert.Contains(t, h.lastBody(), "Unknown command")
	assert.Contains(t, h.lastBody(), "Did you mean")

	e.Execute("qqqqqqqqqq")
	assert.NotContains(t, h.lastBody(), "Did you mean")
}

func TestFatalCommandErrorStillResponds(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, someEntries(1)...)
	sess.Lock()
	sess.SetFavorites([]session.Favorite{{Index: 1, Entry: nil}})
	sess.Unlock()

	e.Execute("favs")
	require.Len(t, h.bodies, 1, "the response is sent even when the handler fails")
	assert.True(t, strings.HasPrefix(h.lastBody(), "[FATAL COMMAND ERROR]:"), h.lastBody())
}

func TestSetUnsetNote(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, someEntries(2)...)

	e.Execute("set needs a closer look")
	assert.Equal(t, "needs a closer look", sess.Entries()[0].Note)

	e.Execute("unset")
	assert.Equal(t, "", sess.Entries()[0].Note)

	e.Execute("clear")
	e.Execute("set whatever")
	assert.Equal(t, "No entry selected.", h.lastBody())
}

func TestLogAndHistory(t *testing.T) {
	e, _, h := newTestEngine(session.Options{Nick: "Operator"}, someEntries(2)...)

	e.Execute("log checked the heap")
	e.Execute("log looks fine")
	h.reset()

	e.Execute("history")
	require.Len(t, h.lines, 2)
	assert.Contains(t, h.lines[0], "Operator: checked the heap")
	assert.Contains(t, h.lines[1], "Operator: looks fine")
	assert.Equal(t, "2 log record(s).", h.lastBody())
}

func TestCounterCommand(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{})

	e.Execute("counter")
	assert.Equal(t, "Counter: (off).", h.lastBody())

	e.Execute("counter 5")
	assert.Equal(t, 5, sess.Counter())

	e.Execute("counter 2 pause")
	assert.True(t, sess.IsPaused())
	assert.Equal(t, 2, sess.Counter())

	e.Execute("disable")
	assert.False(t, sess.CounterActive())

	e.Execute("reset")
	assert.Equal(t, 2, sess.Counter())
}

func TestPauseToggle(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{})

	e.Execute("pause")
	assert.True(t, sess.IsPaused())

	e.Execute("toggle")
	assert.False(t, sess.IsPaused())

	e.Execute("toggle")
	assert.True(t, sess.IsPaused())
}

func TestDebugFlag(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{})
	e.Execute("debug")
	assert.True(t, sess.IsDebug())
	e.Execute("nodebug")
	assert.False(t, sess.IsDebug())
}

func TestStateSummary(t *testing.T) {
	e, _, h := newTestEngine(session.Options{}, someEntries(2)...)
	e.Execute("add 1")
	e.Execute("state")
	body := h.lastBody()
	assert.Contains(t, body, "entries=2")
	assert.Contains(t, body, "favorites=1")
	assert.Contains(t, body, "paused=false")
}

func TestHelpListsCommands(t *testing.T) {
	e, _, h := newTestEngine(session.Options{})
	e.Execute("?")
	assert.NotEmpty(t, h.lines)
	assert.Contains(t, h.lastBody(), "command(s).")

	h.reset()
	e.Execute("help goto")
	require.Len(t, h.lines, 1)
	assert.Contains(t, h.lines[0], "goto index")
}

func TestInfoCommands(t *testing.T) {
	e, _, h := newTestEngine(session.Options{Nick: "Me"})

	e.Execute("about")
	assert.Contains(t, h.lastBody(), "rdbridge test")

	e.Execute("me")
	assert.Equal(t, "Me", h.lastBody())

	e.Execute("github")
	assert.Contains(t, h.lastBody(), "github.com")

	e.Execute("paypal")
	assert.Contains(t, h.lastBody(), "paypal")
}

func searchEntries() []*entry.Entry {
	return []*entry.Entry{
		{App: "one"},
		{App: "two", Variables: []*entry.Variable{{Name: "alpha", Value: json.RawMessage(`"abbc"`)}}},
		{App: "three"},
		{App: "four", Variables: []*entry.Variable{{Name: "alpha", Value: json.RawMessage(`"xyz"`)}}},
		{App: "five"},
	}
}

func TestFindNavigatesAndNextContinues(t *testing.T) {
	e, sess, _ := newTestEngine(session.Options{}, searchEntries()...)

	e.Execute("find alpha")
	assert.Equal(t, 1, sess.CurrentIndex())

	e.Execute("next")
	assert.Equal(t, 3, sess.CurrentIndex())

	// wraps around to the first match again
	e.Execute("next")
	assert.Equal(t, 1, sess.CurrentIndex())
}

func TestFindNoMatch(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, searchEntries()...)
	e.Execute("find doesnotexist")
	assert.Equal(t, "Not found.", h.lastBody())
	assert.Equal(t, 0, sess.CurrentIndex(), "no navigation without a match")
}

func TestRegexSearch(t *testing.T) {
	e, sess, h := newTestEngine(session.Options{}, searchEntries()...)

	e.Execute("regex ab+c")
	assert.Equal(t, 1, sess.CurrentIndex())

	e.Execute("regex [invalid")
	assert.Contains(t, h.lastBody(), "Invalid regular expression")

	// the failed compile did not disturb the armed search
	e.Execute("next")
	assert.Equal(t, 1, sess.CurrentIndex())
}

func TestNextWithoutSearch(t *testing.T) {
	e, _, h := newTestEngine(session.Options{}, someEntries(3)...)
	e.Execute("next")
	assert.Equal(t, "No search started.", h.lastBody())
}

func TestSendWithoutFavorites(t *testing.T) {
	e, _, h := newTestEngine(session.Options{}, someEntries(2)...)
	e.Execute("send localhost:5979")
	assert.Equal(t, "No favorites to send.", h.lastBody())
}

func TestShareWithoutFriends(t *testing.T) {
	e, _, h := newTestEngine(session.Options{}, someEntries(2)...)
	e.Execute("add 1")
	e.Execute("share")
	assert.Equal(t, "No friends found.", h.lastBody())
}

func TestFriendsCommand(t *testing.T) {
	e, _, h := newTestEngine(session.Options{
		Friends: session.ParseFriends([]string{"peer.example.com:6000=peer"}, 5979),
	})
	e.Execute("friends")
	require.Len(t, h.lines, 1)
	assert.Contains(t, h.lines[0], "peer=peer.example.com:6000")
}
