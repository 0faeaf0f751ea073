// Package storage persists favorited entries as pretty-printed JSON arrays
// in the configured source root, named by a placeholder pattern that is
// compiled both into concrete file names (save) and into a matching regular
// expression (load auto-discovery).
package storage

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"rdbridge/pkg/entry"
)

// DefaultFilenameFormat is used when the config does not override it.
const DefaultFilenameFormat = "rdbridge_favs_${year}${month}${day}_${hours}${minutes}${seconds}.json"

// placeholder expansion for generated names and the regex each one matches
var placeholders = []struct {
	key     string
	pattern string
	value   func(t time.Time) string
}{
	{"${timestamp}", `\d+`, func(t time.Time) string { return fmt.Sprintf("%d", t.Unix()) }},
	{"${year}", `\d{4}`, func(t time.Time) string { return t.Format("2006") }},
	{"${month}", `\d{2}`, func(t time.Time) string { return t.Format("01") }},
	{"${day}", `\d{2}`, func(t time.Time) string { return t.Format("02") }},
	{"${hours}", `\d{2}`, func(t time.Time) string { return t.Format("15") }},
	{"${minutes}", `\d{2}`, func(t time.Time) string { return t.Format("04") }},
	{"${seconds}", `\d{2}`, func(t time.Time) string { return t.Format("05") }},
	{"${timezone}", `[-+]\d{4}`, func(t time.Time) string { return t.Format("-0700") }},
	{"${rand}", `\d+`, func(t time.Time) string { return fmt.Sprintf("%d", rand.Intn(1000000)) }},
}

// Pattern is a compiled filename format.
type Pattern struct {
	format string
}

func NewPattern(format string) Pattern {
	if strings.TrimSpace(format) == "" {
		format = DefaultFilenameFormat
	}
	return Pattern{format: format}
}

// Generate renders a concrete file name for the given time.
func (p Pattern) Generate(t time.Time) string {
	name := p.format
	for _, ph := range placeholders {
		if strings.Contains(name, ph.key) {
			name = strings.ReplaceAll(name, ph.key, ph.value(t))
		}
	}
	return name
}

// Regexp compiles the format into a matcher for previously generated names,
// including collision-suffixed ones (name_0.ext, name_1.ext, ...).
func (p Pattern) Regexp() (*regexp.Regexp, error) {
	var b strings.Builder
	rest := p.format
	for len(rest) > 0 {
		best := -1
		bestIdx := len(rest)
		for i, ph := range placeholders {
			if idx := strings.Index(rest, ph.key); idx >= 0 && idx < bestIdx {
				best, bestIdx = i, idx
			}
		}
		if best < 0 {
			b.WriteString(regexp.QuoteMeta(rest))
			break
		}
		b.WriteString(regexp.QuoteMeta(rest[:bestIdx]))
		b.WriteString(placeholders[best].pattern)
		rest = rest[bestIdx+len(placeholders[best].key):]
	}

	expr := b.String()
	// Accept the _N collision suffix right before the extension.
	if dot := strings.LastIndex(expr, `\.`); dot >= 0 {
		expr = expr[:dot] + `(?:_\d+)?` + expr[dot:]
	} else {
		expr += `(?:_\d+)?`
	}
	return regexp.Compile("^" + expr + "$")
}

// AvoidCollision returns path untouched when unused, otherwise the first
// path with a _0, _1, ... suffix before the extension that does not exist.
func AvoidCollision(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// Save writes entries as a pretty-printed JSON array.
func Save(path string, entries []*entry.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}

// Load reads a JSON array of entries from path.
func Load(path string) ([]*entry.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	var entries []*entry.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode favorites %s: %w", path, err)
	}
	return entries, nil
}

// FindNewest scans root for the most recently modified file whose name
// matches re. It returns "" when nothing matches.
func FindNewest(root string, re *regexp.Regexp) (string, error) {
	dirents, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", root, err)
	}
	var newest string
	var newestTime time.Time
	for _, d := range dirents {
		if d.IsDir() || !re.MatchString(d.Name()) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(root, d.Name())
			newestTime = info.ModTime()
		}
	}
	return newest, nil
}
