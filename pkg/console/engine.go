// Package console implements the operator command engine: one free-text
// line in, one response body out, plus optional streamed output and
// navigation side effects against the shared session.
package console

import (
	"fmt"
	"regexp"
	"strings"

	"rdbridge/pkg/session"
)

// captures holds named arguments extracted by a pattern command.
type captures map[string]string

// Context is handed to each command handler. Handlers fill Body; the engine
// sends the response exactly once after the handler returns.
type Context struct {
	Sess *session.Session
	Args captures
	Body string
}

type handlerFunc func(e *Engine, c *Context)

// command is one row of the dispatch table: a matcher plus its handler.
// Exact commands match the whole lowercased line against their names;
// pattern commands run a regular expression with named capture groups.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	re      *regexp.Regexp // nil for exact commands
	handler handlerFunc
}

// match tests the command against a trimmed input line.
func (c *command) match(line string) (captures, bool) {
	if c.re == nil {
		lower := strings.ToLower(line)
		if lower == c.name {
			return nil, true
		}
		for _, a := range c.aliases {
			if lower == a {
				return nil, true
			}
		}
		return nil, false
	}
	m := c.re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	caps := captures{}
	for i, name := range c.re.SubexpNames() {
		if name != "" {
			caps[name] = strings.TrimSpace(m[i])
		}
	}
	return caps, true
}

// Engine parses and dispatches console commands.
type Engine struct {
	sess     *session.Session
	version  string
	commands []*command
	search   search
	sim      Similarity
}

// New builds the engine with its fixed command table.
func New(sess *session.Session, version string) *Engine {
	e := &Engine{sess: sess, version: version, sim: DefaultSimilarity}
	e.commands = commandTable()
	return e
}

// Execute processes one command line under the session lock. The response
// is sent exactly once, even when the handler fails.
func (e *Engine) Execute(line string) {
	e.sess.Lock()
	defer e.sess.Unlock()

	ctx := &Context{Sess: e.sess, Args: captures{}}
	defer func() {
		if r := recover(); r != nil {
			ctx.Body = fmt.Sprintf("[FATAL COMMAND ERROR]: %v", r)
		}
		e.sess.SendResponse(ctx.Body)
	}()

	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	for _, cmd := range e.commands {
		if caps, ok := cmd.match(line); ok {
			ctx.Args = caps
			cmd.handler(e, ctx)
			return
		}
	}
	e.unknownCommand(ctx, line)
}

// unknownCommand fuzzy-matches against the full vocabulary and suggests the
// closest command.
func (e *Engine) unknownCommand(c *Context, line string) {
	word := strings.ToLower(strings.Fields(line)[0])
	if best, ok := Suggest(word, e.vocabulary(), e.sim); ok {
		c.Body = fmt.Sprintf("Unknown command %q. Did you mean %q?", word, best)
		return
	}
	c.Body = fmt.Sprintf("Unknown command %q.", word)
}

// vocabulary lists every command name and alias, table order.
func (e *Engine) vocabulary() []string {
	var words []string
	for _, cmd := range e.commands {
		words = append(words, cmd.name)
		words = append(words, cmd.aliases...)
	}
	return words
}

// findCommand resolves a name or alias for "help <cmd>".
func (e *Engine) findCommand(name string) *command {
	name = strings.ToLower(name)
	for _, cmd := range e.commands {
		if cmd.name == name {
			return cmd
		}
		for _, a := range cmd.aliases {
			if a == name {
				return cmd
			}
		}
	}
	return nil
}
