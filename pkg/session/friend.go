package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Friend is a named remote endpoint used as a "share" target.
type Friend struct {
	Name    string
	Address string
	Port    int
}

// String renders the friend back to its configured form.
func (f Friend) String() string {
	return fmt.Sprintf("%s=%s:%d", f.Name, f.Address, f.Port)
}

// ParseFriends parses "address[:port][=name]" specs. Unnamed friends get
// generated "#N" names; names and addresses are lowercase-normalized.
// Malformed specs are skipped.
func ParseFriends(specs []string, defaultPort int) []Friend {
	var out []Friend
	n := 0
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		name := ""
		if eq := strings.Index(spec, "="); eq >= 0 {
			name = normalizeName(spec[eq+1:])
			spec = spec[:eq]
		}
		addr := spec
		port := defaultPort
		if colon := strings.LastIndex(spec, ":"); colon >= 0 {
			p, err := strconv.Atoi(strings.TrimSpace(spec[colon+1:]))
			if err != nil || p < 1 || p > 65535 {
				continue
			}
			port = p
			addr = spec[:colon]
		}
		addr = normalizeName(addr)
		if addr == "" {
			continue
		}
		n++
		if name == "" {
			name = fmt.Sprintf("#%d", n)
		}
		out = append(out, Friend{Name: name, Address: addr, Port: port})
	}
	return out
}

// FindFriends resolves names against the friend list; with no names given
// it returns every known friend.
func (s *Session) FindFriends(names []string) []Friend {
	if len(names) == 0 {
		return s.friends
	}
	var out []Friend
	for _, want := range names {
		want = normalizeName(want)
		for _, f := range s.friends {
			if f.Name == want {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
