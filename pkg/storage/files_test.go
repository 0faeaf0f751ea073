package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdbridge/pkg/entry"
)

func TestPatternGenerate(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 5, 7, 0, time.UTC)
	p := NewPattern("favs_${year}${month}${day}_${hours}${minutes}${seconds}.json")
	assert.Equal(t, "favs_20260830_090507.json", p.Generate(at))
}

func TestPatternRegexpMatchesGeneratedNames(t *testing.T) {
	p := NewPattern("favs_${year}${month}${day}.json")
	re, err := p.Regexp()
	require.NoError(t, err)

	assert.True(t, re.MatchString("favs_20260830.json"))
	assert.True(t, re.MatchString("favs_20260830_0.json"), "collision suffix accepted")
	assert.True(t, re.MatchString("favs_20260830_12.json"))
	assert.False(t, re.MatchString("favs_2026083.json"))
	assert.False(t, re.MatchString("other_20260830.json"))
	assert.False(t, re.MatchString("favs_20260830.json.bak"))
}

func TestPatternRegexpTimezoneAndRand(t *testing.T) {
	p := NewPattern("f_${timestamp}_${timezone}_${rand}.json")
	re, err := p.Regexp()
	require.NoError(t, err)

	name := p.Generate(time.Now())
	assert.True(t, re.MatchString(name), "generated name %q must match its own pattern", name)
}

func TestAvoidCollision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "favs.json")

	assert.Equal(t, path, AvoidCollision(path), "unused path is kept")

	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))
	next := AvoidCollision(path)
	assert.Equal(t, filepath.Join(dir, "favs_0.json"), next)

	require.NoError(t, os.WriteFile(next, []byte("[]"), 0644))
	assert.Equal(t, filepath.Join(dir, "favs_1.json"), AvoidCollision(path))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "favs.json")

	entries := []*entry.Entry{
		{App: "app1", Variables: []*entry.Variable{{Name: "x", Type: "integer", Value: json.RawMessage(`5`)}}},
		{App: "app2", Note: "interesting", Threads: []*entry.Thread{{ID: 1, Name: "main"}}},
	}
	require.NoError(t, Save(path, entries))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// round trip preserves JSON structure
	want, err := json.Marshal(entries)
	require.NoError(t, err)
	got, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFindNewest(t *testing.T) {
	dir := t.TempDir()
	p := NewPattern("favs_${year}.json")
	re, err := p.Regexp()
	require.NoError(t, err)

	older := filepath.Join(dir, "favs_2025.json")
	newer := filepath.Join(dir, "favs_2026.json")
	require.NoError(t, os.WriteFile(older, []byte("[]"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("[]"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, old, old))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("[]"), 0644))

	got, err := FindNewest(dir, re)
	require.NoError(t, err)
	assert.Equal(t, newer, got)
}

func TestFindNewestEmpty(t *testing.T) {
	dir := t.TempDir()
	re, err := NewPattern("favs_${year}.json").Regexp()
	require.NoError(t, err)

	got, err := FindNewest(dir, re)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
