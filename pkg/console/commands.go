package console

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rdbridge/pkg/entry"
	"rdbridge/pkg/plugins"
	"rdbridge/pkg/session"
	"rdbridge/pkg/storage"
	"rdbridge/pkg/transport"
)

const (
	projectURL = "https://github.com/rdbridge/rdbridge"
	issuesURL  = projectURL + "/issues"
	twitterURL = "https://twitter.com/rdbridge"
	donateURL  = "https://paypal.me/rdbridge"

	defaultListCount = 25

	// transportDefaultPort is used when "send host" omits the port.
	transportDefaultPort = 5979
)

// commandTable builds the fixed dispatch table. Exact commands come first,
// then pattern commands; dispatch walks the table in order, so the literal
// tier always wins over the pattern tier. Pattern commands only match when
// the command word stands alone or is followed by whitespace; anything else
// falls through to the fuzzy unknown-command handler.
func commandTable() []*command {
	return []*command{
		// --- exact keyword commands ---
		{name: "?", usage: "?", help: "list all commands", handler: cmdHelp},
		{name: "+", usage: "+", help: "go to the next entry", handler: cmdStepForward},
		{name: "-", usage: "-", help: "go to the previous entry", handler: cmdStepBack},
		{name: "about", usage: "about", help: "show version information", handler: cmdAbout},
		{name: "all", usage: "all", help: "favorite every entry", handler: cmdAll},
		{name: "clear", usage: "clear", help: "drop all entries and favorites", handler: cmdClear},
		{name: "continue", usage: "continue", help: "jump past the last entry and wait", handler: cmdContinue},
		{name: "current", usage: "current", help: "show the current entry", handler: cmdCurrent},
		{name: "debug", usage: "debug", help: "enable debug output", handler: cmdDebug},
		{name: "donate", aliases: []string{"paypal"}, usage: "donate", help: "support the project", handler: cmdDonate},
		{name: "favs", usage: "favs", help: "list favorites", handler: cmdFavs},
		{name: "first", usage: "first", help: "go to the first entry", handler: cmdFirst},
		{name: "friends", usage: "friends", help: "list configured friends", handler: cmdFriends},
		{name: "github", usage: "github", help: "show the project page", handler: cmdGithub},
		{name: "issues", aliases: []string{"issue"}, usage: "issues", help: "show the issue tracker", handler: cmdIssues},
		{name: "last", usage: "last", help: "go to the last entry", handler: cmdLast},
		{name: "me", usage: "me", help: "show your nick", handler: cmdMe},
		{name: "next", usage: "next", help: "jump to the next search match", handler: cmdNext},
		{name: "nodebug", usage: "nodebug", help: "disable debug output", handler: cmdNodebug},
		{name: "none", aliases: []string{"nofavs"}, usage: "none", help: "clear favorites", handler: cmdNone},
		{name: "pause", usage: "pause", help: "stop accepting new entries", handler: cmdPause},
		{name: "plugins", usage: "plugins", help: "list loaded plugins", handler: cmdPlugins},
		{name: "refresh", usage: "refresh", help: "re-select the current entry", handler: cmdRefresh},
		{name: "sort", usage: "sort", help: "sort favorites by index", handler: cmdSort},
		{name: "state", usage: "state", help: "show the session state", handler: cmdState},
		{name: "toggle", usage: "toggle", help: "toggle the pause flag", handler: cmdToggle},
		{name: "trim", usage: "trim", help: "keep only favorited entries", handler: cmdTrim},
		{name: "twitter", usage: "twitter", help: "show the twitter page", handler: cmdTwitter},

		// --- pattern commands ---
		{name: "add", usage: "add [ranges]", help: "favorite entries (default: current)",
			re: regexp.MustCompile(`^(?i:add)(?:\s+(?P<ranges>.*))?$`), handler: cmdAdd},
		{name: "counter", usage: "counter [value] [pause]", help: "show or arm the entry countdown",
			re: regexp.MustCompile(`^(?i:counter)(?:\s+(?P<value>\d+))?(?:\s+(?P<pause>(?i:pause)))?$`), handler: cmdCounter},
		{name: "disable", usage: "disable [pause]", help: "disarm the entry countdown",
			re: regexp.MustCompile(`^(?i:disable)(?:\s+(?P<pause>(?i:pause)))?$`), handler: cmdDisable},
		{name: "exec", usage: "exec cmd [args]", help: "run a plugin command",
			re: regexp.MustCompile(`^(?i:exec)\s+(?P<cmd>\S+)(?:\s+(?P<args>.*))?$`), handler: cmdExec},
		{name: "find", aliases: []string{"search"}, usage: "find [expr]", help: "search variables for substrings",
			re: regexp.MustCompile(`^(?i:find|search)(?:\s+(?P<expr>.*))?$`), handler: cmdFind},
		{name: "goto", usage: "goto index", help: "go to an entry by 1-based index",
			re: regexp.MustCompile(`^(?i:goto)\s+(?P<index>\d+)$`), handler: cmdGoto},
		{name: "help", usage: "help [cmds]", help: "describe commands",
			re: regexp.MustCompile(`^(?i:help)(?:\s+(?P<cmds>.*))?$`), handler: cmdHelp},
		{name: "history", usage: "history [ranges]", help: "show entry log records (default: current)",
			re: regexp.MustCompile(`^(?i:history)(?:\s+(?P<ranges>.*))?$`), handler: cmdHistory},
		{name: "list", usage: "list [skip] [count]", help: "list entries",
			re: regexp.MustCompile(`^(?i:list)(?:\s+(?P<skip>\d+))?(?:\s+(?P<count>\d+))?$`), handler: cmdList},
		{name: "load", usage: "load [file]", help: "load favorites from a file",
			re: regexp.MustCompile(`^(?i:load)(?:\s+(?P<file>.+))?$`), handler: cmdLoad},
		{name: "log", usage: "log message", help: "append a log record to the current entry",
			re: regexp.MustCompile(`^(?i:log)\s+(?P<message>.+)$`), handler: cmdLog},
		{name: "new", usage: "new [skip] [count]", help: "list newest entries first",
			re: regexp.MustCompile(`^(?i:new)(?:\s+(?P<skip>\d+))?(?:\s+(?P<count>\d+))?$`), handler: cmdNew},
		{name: "regex", usage: "regex pattern", help: "search variable values by regular expression",
			re: regexp.MustCompile(`^(?i:regex)\s+(?P<pattern>.+)$`), handler: cmdRegex},
		{name: "remove", usage: "remove [ranges]", help: "unfavorite entries (default: current)",
			re: regexp.MustCompile(`^(?i:remove)(?:\s+(?P<ranges>.*))?$`), handler: cmdRemove},
		{name: "reset", usage: "reset [pause]", help: "re-arm the countdown at its start value",
			re: regexp.MustCompile(`^(?i:reset)(?:\s+(?P<pause>(?i:pause)))?$`), handler: cmdReset},
		{name: "save", usage: "save [file]", help: "save favorites to a file",
			re: regexp.MustCompile(`^(?i:save)(?:\s+(?P<file>.+))?$`), handler: cmdSave},
		{name: "send", usage: "send host[:port]", help: "send favorites to a remote bridge",
			re: regexp.MustCompile(`^(?i:send)\s+(?P<host>[^\s:]+)(?:[:\s]\s*(?P<port>\d+))?$`), handler: cmdSend},
		{name: "set", usage: "set text", help: "set the note of the current entry",
			re: regexp.MustCompile(`^(?i:set)\s+(?P<text>.+)$`), handler: cmdSet},
		{name: "share", usage: "share [names]", help: "send favorites to friends",
			re: regexp.MustCompile(`^(?i:share)(?:\s+(?P<names>.*))?$`), handler: cmdShare},
		{name: "unset", usage: "unset [ranges]", help: "clear entry notes (default: current)",
			re: regexp.MustCompile(`^(?i:unset)(?:\s+(?P<ranges>.*))?$`), handler: cmdUnset},
	}
}

// positionBody describes the cursor after a navigation command.
func positionBody(s *session.Session) string {
	if e := s.CurrentEntry(); e != nil {
		return fmt.Sprintf("Entry %d of %d: %s", s.CurrentIndex()+1, len(s.Entries()), e.Summary())
	}
	return fmt.Sprintf("Waiting past the last entry (%d entries).", len(s.Entries()))
}

// rangesOrCurrent parses a range argument, falling back to the current
// entry's 1-based index. ok is false when neither yields a selection.
func rangesOrCurrent(c *Context, arg string) (RangeList, bool) {
	rl := ParseRanges(arg)
	if !rl.Empty() {
		return rl, true
	}
	if c.Sess.CurrentEntry() == nil {
		return nil, false
	}
	idx := c.Sess.CurrentIndex() + 1
	return RangeList{{Start: idx, End: idx}}, true
}

const noSelection = "No entry selected."

// --- navigation ---

func cmdStepForward(e *Engine, c *Context) {
	c.Sess.GotoIndex(c.Sess.CurrentIndex() + 1)
	c.Body = positionBody(c.Sess)
}

func cmdStepBack(e *Engine, c *Context) {
	c.Sess.GotoIndex(c.Sess.CurrentIndex() - 1)
	c.Body = positionBody(c.Sess)
}

func cmdFirst(e *Engine, c *Context) {
	c.Sess.GotoIndex(0)
	c.Body = positionBody(c.Sess)
}

func cmdLast(e *Engine, c *Context) {
	c.Sess.GotoIndex(len(c.Sess.Entries()) - 1)
	c.Body = positionBody(c.Sess)
}

func cmdContinue(e *Engine, c *Context) {
	c.Sess.GotoIndex(len(c.Sess.Entries()))
	c.Body = positionBody(c.Sess)
}

func cmdRefresh(e *Engine, c *Context) {
	c.Sess.GotoIndex(c.Sess.CurrentIndex())
	c.Body = positionBody(c.Sess)
}

func cmdGoto(e *Engine, c *Context) {
	n, err := strconv.Atoi(c.Args["index"])
	if err != nil {
		c.Body = fmt.Sprintf("Invalid index %q.", c.Args["index"])
		return
	}
	c.Sess.GotoIndex(n - 1)
	c.Body = positionBody(c.Sess)
}

func cmdCurrent(e *Engine, c *Context) {
	cur := c.Sess.CurrentEntry()
	if cur == nil {
		c.Body = noSelection
		return
	}
	c.Body = fmt.Sprintf("Entry %d of %d: %s", c.Sess.CurrentIndex()+1, len(c.Sess.Entries()), cur.Summary())
}

// --- store / favorites ---

func cmdClear(e *Engine, c *Context) {
	c.Sess.Clear()
	c.Body = "Cleared all entries and favorites."
}

func cmdAll(e *Engine, c *Context) {
	c.Sess.FavoriteAll()
	c.Body = fmt.Sprintf("Favorited all %d entries.", len(c.Sess.Favorites()))
}

func cmdNone(e *Engine, c *Context) {
	c.Sess.ClearFavorites()
	c.Body = "Favorites cleared."
}

func cmdSort(e *Engine, c *Context) {
	c.Sess.SetFavorites(c.Sess.Favorites())
	c.Body = "Favorites sorted."
}

func cmdTrim(e *Engine, c *Context) {
	c.Sess.Trim()
	c.Body = fmt.Sprintf("Store trimmed to %d favorited entries.", len(c.Sess.Entries()))
}

func cmdFavs(e *Engine, c *Context) {
	favs := c.Sess.Favorites()
	if len(favs) == 0 {
		c.Body = "No favorites."
		return
	}
	for _, f := range favs {
		c.Sess.WriteLine(fmt.Sprintf("%d) %s", f.Index, f.Entry.Summary()))
	}
	c.Body = fmt.Sprintf("%d favorite(s).", len(favs))
}

func cmdAdd(e *Engine, c *Context) {
	rl, ok := rangesOrCurrent(c, c.Args["ranges"])
	if !ok {
		c.Body = noSelection
		return
	}
	added := 0
	for i := 1; i <= len(c.Sess.Entries()); i++ {
		if !rl.IsInRange(i) {
			continue
		}
		before := len(c.Sess.Favorites())
		if c.Sess.AddFavorite(i) && len(c.Sess.Favorites()) > before {
			added++
		}
	}
	c.Body = fmt.Sprintf("Added %d favorite(s).", added)
}

func cmdRemove(e *Engine, c *Context) {
	rl, ok := rangesOrCurrent(c, c.Args["ranges"])
	if !ok {
		c.Body = noSelection
		return
	}
	removed := 0
	for _, f := range append([]session.Favorite(nil), c.Sess.Favorites()...) {
		if rl.IsInRange(f.Index) && c.Sess.RemoveFavorite(f.Index) {
			removed++
		}
	}
	c.Body = fmt.Sprintf("Removed %d favorite(s).", removed)
}

// --- listing ---

func listWindow(c *Context, skip, count int, reverse bool) {
	entries := c.Sess.Entries()
	type row struct {
		index int
		e     *entry.Entry
	}
	var rows []row
	if reverse {
		for i := len(entries) - 1 - skip; i >= 0 && len(rows) < count; i-- {
			rows = append(rows, row{index: i + 1, e: entries[i]})
		}
	} else {
		for i := skip; i < len(entries) && len(rows) < count; i++ {
			rows = append(rows, row{index: i + 1, e: entries[i]})
		}
	}
	if len(rows) == 0 {
		c.Body = "No items found"
		return
	}
	favs := c.Sess.Favorites()
	isFav := func(idx int) bool {
		for _, f := range favs {
			if f.Index == idx {
				return true
			}
		}
		return false
	}
	for _, r := range rows {
		marker := " "
		if r.index-1 == c.Sess.CurrentIndex() {
			marker = ">"
		}
		star := " "
		if isFav(r.index) {
			star = "*"
		}
		c.Sess.WriteLine(fmt.Sprintf("%s%s %d) %s", marker, star, r.index, r.e.Summary()))
	}
	c.Body = fmt.Sprintf("%d item(s).", len(rows))
}

func parseWindowArgs(args captures) (skip, count int) {
	skip, count = 0, defaultListCount
	if v := args["skip"]; v != "" {
		skip, _ = strconv.Atoi(v)
	}
	if v := args["count"]; v != "" {
		count, _ = strconv.Atoi(v)
	}
	return skip, count
}

func cmdList(e *Engine, c *Context) {
	skip, count := parseWindowArgs(c.Args)
	listWindow(c, skip, count, false)
}

func cmdNew(e *Engine, c *Context) {
	skip, count := parseWindowArgs(c.Args)
	listWindow(c, skip, count, true)
}

// --- annotations ---

func cmdSet(e *Engine, c *Context) {
	cur := c.Sess.CurrentEntry()
	if cur == nil {
		c.Body = noSelection
		return
	}
	cur.Note = c.Args["text"]
	c.Body = "Note set."
}

func cmdUnset(e *Engine, c *Context) {
	rl, ok := rangesOrCurrent(c, c.Args["ranges"])
	if !ok {
		c.Body = noSelection
		return
	}
	cleared := 0
	for i, en := range c.Sess.Entries() {
		if rl.IsInRange(i+1) && en.Note != "" {
			en.Note = ""
			cleared++
		}
	}
	c.Body = fmt.Sprintf("Cleared %d note(s).", cleared)
}

func cmdLog(e *Engine, c *Context) {
	cur := c.Sess.CurrentEntry()
	if cur == nil {
		c.Body = noSelection
		return
	}
	author := c.Sess.Nick()
	if author == "" {
		author = "me"
	}
	cur.AddLog(author, c.Args["message"], time.Now())
	c.Body = "Log record added."
}

func cmdHistory(e *Engine, c *Context) {
	rl, ok := rangesOrCurrent(c, c.Args["ranges"])
	if !ok {
		c.Body = noSelection
		return
	}
	records := 0
	for i, en := range c.Sess.Entries() {
		if !rl.IsInRange(i + 1) {
			continue
		}
		for _, rec := range en.Logs {
			c.Sess.WriteLine(fmt.Sprintf("[%d] %s %s: %s",
				i+1, rec.Time.Format("2006-01-02 15:04:05"), rec.Author, rec.Message))
			records++
		}
	}
	if records == 0 {
		c.Body = "No log records."
		return
	}
	c.Body = fmt.Sprintf("%d log record(s).", records)
}

// --- session flags ---

func cmdPause(e *Engine, c *Context) {
	c.Sess.SetPaused(true)
	c.Body = "Paused."
}

func cmdToggle(e *Engine, c *Context) {
	c.Sess.SetPaused(!c.Sess.IsPaused())
	if c.Sess.IsPaused() {
		c.Body = "Paused."
	} else {
		c.Body = "Resumed."
	}
}

func cmdDebug(e *Engine, c *Context) {
	c.Sess.SetDebug(true)
	c.Body = "Debug mode enabled."
}

func cmdNodebug(e *Engine, c *Context) {
	c.Sess.SetDebug(false)
	c.Body = "Debug mode disabled."
}

func cmdCounter(e *Engine, c *Context) {
	body := ""
	if v := c.Args["value"]; v != "" {
		n, _ := strconv.Atoi(v)
		c.Sess.SetCounter(n)
		body = fmt.Sprintf("Counter set to %d.", n)
	} else if n := c.Sess.Counter(); n >= 0 {
		body = fmt.Sprintf("Counter: %d.", n)
	} else {
		body = "Counter: (off)."
	}
	if c.Args["pause"] != "" {
		c.Sess.SetPaused(true)
		body += " Paused."
	}
	c.Body = body
}

func cmdDisable(e *Engine, c *Context) {
	c.Sess.DisableCounter()
	c.Body = "Counter disabled."
	if c.Args["pause"] != "" {
		c.Sess.SetPaused(true)
		c.Body += " Paused."
	}
}

func cmdReset(e *Engine, c *Context) {
	if c.Sess.ResetCounter() {
		c.Body = fmt.Sprintf("Counter reset to %d.", c.Sess.Counter())
	} else {
		c.Body = "No counter configured."
	}
	if c.Args["pause"] != "" {
		c.Sess.SetPaused(true)
		c.Body += " Paused."
	}
}

func cmdState(e *Engine, c *Context) {
	s := c.Sess
	counter := "off"
	if n := s.Counter(); n >= 0 {
		counter = strconv.Itoa(n)
	}
	pos := "(none)"
	if s.CurrentEntry() != nil {
		pos = strconv.Itoa(s.CurrentIndex() + 1)
	}
	c.Body = fmt.Sprintf("entries=%d favorites=%d current=%s paused=%v debug=%v counter=%s",
		len(s.Entries()), len(s.Favorites()), pos, s.IsPaused(), s.IsDebug(), counter)
}

// --- search ---

func cmdFind(e *Engine, c *Context) {
	expr := c.Args["expr"]
	if expr == "" {
		c.Body = "Nothing to search for."
		return
	}
	e.search.startFind(expr, c.Sess.CurrentIndex())
	e.continueSearch(c)
}

func cmdRegex(e *Engine, c *Context) {
	re, err := regexp.Compile(c.Args["pattern"])
	if err != nil {
		c.Body = fmt.Sprintf("Invalid regular expression: %v", err)
		return
	}
	e.search.startRegex(re, c.Sess.CurrentIndex())
	e.continueSearch(c)
}

func cmdNext(e *Engine, c *Context) {
	if !e.search.active {
		c.Body = "No search started."
		return
	}
	e.continueSearch(c)
}

func (e *Engine) continueSearch(c *Context) {
	idx, found := e.search.next(c.Sess.Entries())
	if !found {
		c.Body = "Not found."
		return
	}
	c.Sess.GotoIndex(idx)
	c.Body = positionBody(c.Sess)
}

// --- persistence ---

func cmdSave(e *Engine, c *Context) {
	favs := c.Sess.Favorites()
	if len(favs) == 0 {
		c.Body = "No favorites to save."
		return
	}
	var path string
	if file := c.Args["file"]; file != "" {
		path = file
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.Sess.SourceRoot(), path)
		}
	} else {
		pattern := storage.NewPattern(c.Sess.FilenameFormat())
		path = filepath.Join(c.Sess.SourceRoot(), pattern.Generate(time.Now()))
	}
	path = storage.AvoidCollision(path)

	entries := make([]*entry.Entry, 0, len(favs))
	for _, f := range favs {
		entries = append(entries, f.Entry)
	}
	if err := storage.Save(path, entries); err != nil {
		c.Body = fmt.Sprintf("Could not save favorites: %v", err)
		return
	}
	c.Body = fmt.Sprintf("Saved %d favorite(s) to %s.", len(entries), path)
}

func cmdLoad(e *Engine, c *Context) {
	var path string
	if file := c.Args["file"]; file != "" {
		path = file
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.Sess.SourceRoot(), path)
		}
	} else {
		pattern := storage.NewPattern(c.Sess.FilenameFormat())
		re, err := pattern.Regexp()
		if err != nil {
			c.Body = fmt.Sprintf("Invalid filename format: %v", err)
			return
		}
		newest, err := storage.FindNewest(c.Sess.SourceRoot(), re)
		if err != nil {
			c.Body = fmt.Sprintf("Could not scan %s: %v", c.Sess.SourceRoot(), err)
			return
		}
		if newest == "" {
			c.Body = fmt.Sprintf("No matching files found in %s.", c.Sess.SourceRoot())
			return
		}
		path = newest
	}

	loaded, err := storage.Load(path)
	if err != nil {
		c.Body = fmt.Sprintf("Could not load favorites: %v", err)
		return
	}
	for _, en := range loaded {
		c.Sess.Admit(en)
		c.Sess.AddFavorite(len(c.Sess.Entries()))
	}
	c.Body = fmt.Sprintf("Loaded %d entries from %s.", len(loaded), path)
}

// --- outbound ---

// preparePayloads marshals and plugin-transforms every favorite under the
// session lock so the async send loop touches no shared state.
func preparePayloads(c *Context) ([][]byte, error) {
	favs := c.Sess.Favorites()
	payloads := make([][]byte, 0, len(favs))
	for _, f := range favs {
		data, err := f.Entry.Marshal()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", f.Index, err)
		}
		data, err = plugins.Transform(c.Sess.Plugins(), data)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", f.Index, err)
		}
		payloads = append(payloads, data)
	}
	return payloads, nil
}

// sendSerialized pushes payloads to one destination strictly in order: the
// next send only begins after the previous one settled, success or failure.
func (e *Engine) sendSerialized(host session.Host, address string, port int, payloads [][]byte) {
	sender := transport.NewSender()
	sent := 0
	for _, p := range payloads {
		if err := sender.Send(address, port, p); err != nil {
			host.WriteLine(fmt.Sprintf("Send to %s:%d failed: %v", address, port, err))
			continue
		}
		sent++
	}
	host.WriteLine(fmt.Sprintf("Sent %d/%d favorite(s) to %s:%d.", sent, len(payloads), address, port))
}

func cmdSend(e *Engine, c *Context) {
	if len(c.Sess.Favorites()) == 0 {
		c.Body = "No favorites to send."
		return
	}
	port := transportDefaultPort
	if v := c.Args["port"]; v != "" {
		port, _ = strconv.Atoi(v)
	}
	payloads, err := preparePayloads(c)
	if err != nil {
		c.Body = fmt.Sprintf("Could not prepare favorites: %v", err)
		return
	}
	address := strings.ToLower(c.Args["host"])
	go e.sendSerialized(c.Sess.Host(), address, port, payloads)
	c.Body = fmt.Sprintf("Sending %d favorite(s) to %s:%d...", len(payloads), address, port)
}

func cmdShare(e *Engine, c *Context) {
	if len(c.Sess.Favorites()) == 0 {
		c.Body = "No favorites to send."
		return
	}
	friends := c.Sess.FindFriends(strings.Fields(c.Args["names"]))
	if len(friends) == 0 {
		c.Body = "No friends found."
		return
	}
	payloads, err := preparePayloads(c)
	if err != nil {
		c.Body = fmt.Sprintf("Could not prepare favorites: %v", err)
		return
	}
	// Per-friend sends run independently; each friend's stream stays ordered.
	for _, f := range friends {
		go e.sendSerialized(c.Sess.Host(), f.Address, f.Port, payloads)
	}
	c.Body = fmt.Sprintf("Sending %d favorite(s) to %d friend(s)...", len(payloads), len(friends))
}

// --- plugins ---

func cmdPlugins(e *Engine, c *Context) {
	regs := c.Sess.Plugins()
	if len(regs) == 0 {
		c.Body = "No plugins loaded."
		return
	}
	for _, r := range regs {
		info := ""
		if d, ok := r.Plugin.(plugins.Describer); ok {
			info = " — " + d.Info()
		}
		c.Sess.WriteLine(r.Name + info)
	}
	c.Body = fmt.Sprintf("%d plugin(s) loaded.", len(regs))
}

func cmdExec(e *Engine, c *Context) {
	name := strings.ToLower(c.Args["cmd"])
	args := strings.Fields(c.Args["args"])

	var vocabulary []string
	for _, r := range c.Sess.Plugins() {
		cmder, ok := r.Plugin.(plugins.Commander)
		if !ok {
			continue
		}
		for _, cmd := range cmder.Commands() {
			if strings.ToLower(cmd) == name {
				out, err := cmder.Execute(cmd, args)
				if err != nil {
					c.Body = fmt.Sprintf("Plugin command %q failed: %v", name, err)
					return
				}
				c.Body = out
				return
			}
			vocabulary = append(vocabulary, strings.ToLower(cmd))
		}
	}
	if best, ok := Suggest(name, vocabulary, e.sim); ok {
		c.Body = fmt.Sprintf("Unknown plugin command %q. Did you mean %q?", name, best)
		return
	}
	c.Body = fmt.Sprintf("Unknown plugin command %q.", name)
}

// --- informational ---

func cmdAbout(e *Engine, c *Context) {
	c.Body = fmt.Sprintf("rdbridge %s — remote debugging bridge", e.version)
}

func cmdMe(e *Engine, c *Context) {
	if nick := c.Sess.Nick(); nick != "" {
		c.Body = nick
		return
	}
	c.Body = "(no nick set)"
}

func cmdFriends(e *Engine, c *Context) {
	friends := c.Sess.Friends()
	if len(friends) == 0 {
		c.Body = "No friends configured."
		return
	}
	for _, f := range friends {
		c.Sess.WriteLine(f.String())
	}
	c.Body = fmt.Sprintf("%d friend(s).", len(friends))
}

func cmdGithub(e *Engine, c *Context)  { c.Body = projectURL }
func cmdIssues(e *Engine, c *Context)  { c.Body = issuesURL }
func cmdTwitter(e *Engine, c *Context) { c.Body = twitterURL }
func cmdDonate(e *Engine, c *Context)  { c.Body = donateURL }

func cmdHelp(e *Engine, c *Context) {
	names := strings.Fields(c.Args["cmds"])
	if len(names) == 0 {
		for _, cmd := range e.commands {
			c.Sess.WriteLine(fmt.Sprintf("%-24s %s", cmd.usage, cmd.help))
		}
		c.Body = fmt.Sprintf("%d command(s).", len(e.commands))
		return
	}
	shown := 0
	for _, name := range names {
		cmd := e.findCommand(name)
		if cmd == nil {
			if best, ok := Suggest(strings.ToLower(name), e.vocabulary(), e.sim); ok {
				c.Sess.WriteLine(fmt.Sprintf("%s: unknown command, did you mean %q?", name, best))
			} else {
				c.Sess.WriteLine(fmt.Sprintf("%s: unknown command", name))
			}
			continue
		}
		c.Sess.WriteLine(fmt.Sprintf("%-24s %s", cmd.usage, cmd.help))
		shown++
	}
	c.Body = fmt.Sprintf("%d command(s).", shown)
}
