package console

import (
	"encoding/json"
	"regexp"
	"strings"

	"rdbridge/pkg/entry"
)

// search iterates over entry store indices starting after the last match,
// wrapping around. It stays armed between commands so "next" can continue
// where the previous match left off.
type search struct {
	active    bool
	terms     []string       // substring search ("find")
	re        *regexp.Regexp // regex search ("regex")
	lastIndex int            // 0-based index of the last match
}

// startFind arms a substring search. Terms are matched lowercase.
func (s *search) startFind(expr string, from int) {
	s.active = true
	s.re = nil
	s.terms = strings.Fields(strings.ToLower(expr))
	s.lastIndex = from
}

// startRegex arms a regex search.
func (s *search) startRegex(re *regexp.Regexp, from int) {
	s.active = true
	s.terms = nil
	s.re = re
	s.lastIndex = from
}

// next scans for the next entry with at least one matching variable,
// starting at the entry after the last match and wrapping around once.
func (s *search) next(entries []*entry.Entry) (int, bool) {
	if !s.active || len(entries) == 0 {
		return 0, false
	}
	n := len(entries)
	for step := 1; step <= n; step++ {
		i := ((s.lastIndex+step)%n + n) % n
		if s.matches(entries[i]) {
			s.lastIndex = i
			return i, true
		}
	}
	return 0, false
}

// matches tests the entry's variable list.
func (s *search) matches(e *entry.Entry) bool {
	for _, v := range e.Variables {
		if s.matchesVariable(v) {
			return true
		}
	}
	return false
}

func (s *search) matchesVariable(v *entry.Variable) bool {
	if s.re != nil {
		data, err := json.Marshal(v.Value)
		if err != nil {
			return false
		}
		return s.re.Match(data)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	haystack := strings.ToLower(string(data))
	for _, term := range s.terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return len(s.terms) > 0
}
