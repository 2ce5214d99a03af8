package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommit(t *testing.T) {
	zone := time.FixedZone("", 2*3600)
	info := CommitInfo{
		Hash:      "0123456789abcdef0123456789abcdef01234567",
		Author:    "dev <dev@example.com>",
		Message:   "Fix parser\n\nHandles empty lines.\nSecond line.",
		Committed: time.Date(2020, 5, 20, 5, 24, 2, 0, zone),
		Authored:  time.Date(2020, 5, 20, 3, 0, 0, 0, time.UTC),
	}
	note := NewTimeRecord(1, 60)
	commit := NewCommit(info, "gtm", note)

	assert.Equal(t, "2020-05-20 05:24:02 +02:00", commit.Date)
	assert.Equal(t, "2020-05-20 03:00:00 +00:00", commit.When)
	assert.Equal(t, "Fix parser", commit.Subject)
	assert.Equal(t, "Handles empty lines.\nSecond line.", commit.Message)
	assert.Equal(t, "gtm", commit.Project)
	assert.Equal(t, uint32(60), commit.Note.Total)
}

func TestNewCommit_SubjectOnly(t *testing.T) {
	commit := NewCommit(CommitInfo{Message: "one liner"}, "p", NewTimeRecord(1, 0))
	assert.Equal(t, "one liner", commit.Subject)
	assert.Empty(t, commit.Message)
}

func TestCommit_JSONFieldNames(t *testing.T) {
	note, err := DecodeNote("[ver:1,total:60]\na.go:60,3600:60,m")
	require.NoError(t, err)
	commit := NewCommit(CommitInfo{Hash: "abc"}, "p", note)

	data, err := json.Marshal(commit)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"Author", "Date", "When", "Hash", "Subject", "Message", "Project", "Note"} {
		assert.Contains(t, raw, key)
	}
	noteRaw := raw["Note"].(map[string]any)
	files := noteRaw["Files"].([]any)
	file := files[0].(map[string]any)
	assert.Equal(t, map[string]any{"3600": float64(60)}, file["Timeline"])
	assert.Equal(t, "m", file["Status"])
}

func TestNewWorkdirStatus(t *testing.T) {
	status := NewWorkdirStatus(NewTimeRecord(1, 6000))
	assert.Equal(t, uint32(6000), status.Total)
	assert.Equal(t, "1h 40m", status.Label)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "30s", FormatDuration(30))
	assert.Equal(t, "45m", FormatDuration(45*60+10))
	assert.Equal(t, "1h 0m", FormatDuration(3600))
	assert.Equal(t, "26h 3m", FormatDuration(26*3600+180))
}

func TestNotesFilter_Bounds(t *testing.T) {
	f, err := ParseDateFilter("2020-05-20", "2020-05-21", "")
	require.NoError(t, err)

	utc := func(d, h int) time.Time { return time.Date(2020, 5, d, h, 0, 0, 0, time.UTC) }
	assert.False(t, f.Matches(utc(19, 23), ""))
	assert.True(t, f.Matches(utc(20, 0), ""))
	assert.True(t, f.Matches(utc(21, 23), ""))
	assert.True(t, f.Matches(utc(22, 0), ""))
	assert.False(t, f.Matches(utc(22, 1), ""))
}

func TestNotesFilter_UsesWallClock(t *testing.T) {
	f, err := ParseDateFilter("2020-05-20", "", "")
	require.NoError(t, err)

	// 23:30 UTC on the 19th is 01:30 on the 20th in UTC+2.
	committed := time.Date(2020, 5, 20, 1, 30, 0, 0, time.FixedZone("", 2*3600))
	assert.True(t, f.Matches(committed, ""))
	assert.False(t, f.Matches(committed.UTC(), ""))
}

func TestNotesFilter_Needle(t *testing.T) {
	f := &NotesFilter{Needle: "PARSER"}
	assert.True(t, f.Matches(time.Now(), "fix the parser"))
	assert.False(t, f.Matches(time.Now(), "fix the lexer"))
	assert.True(t, AllNotes().Matches(time.Unix(0, 0), ""))
}

func TestParseDateFilter_Invalid(t *testing.T) {
	_, err := ParseDateFilter("20-05-2020", "", "")
	assert.Error(t, err)
	_, err = ParseDateFilter("", "tomorrow", "")
	assert.Error(t, err)
}

func TestNotesFilter_CacheKey(t *testing.T) {
	a, _ := ParseDateFilter("2020-05-20", "", "Fix")
	b, _ := ParseDateFilter("2020-05-20", "", "fix")
	c, _ := ParseDateFilter("2020-05-21", "", "fix")
	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}

func TestLoadProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")
	content := `{"/home/dev/src/zeta":"2020-05-01T10:00:00Z","/home/dev/src/alpha/":"2020-04-01T10:00:00Z"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	projects, err := LoadProjects(path)
	require.NoError(t, err)
	assert.Equal(t, 2, projects.Len())
	assert.Equal(t, []string{"/home/dev/src/alpha/", "/home/dev/src/zeta"}, projects.Paths())
	assert.Equal(t, []string{"alpha", "zeta"}, projects.Keys())
	assert.True(t, projects.Contains("/home/dev/src/zeta"))
}

func TestLoadProjects_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadProjects(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadProjects(bad)
	assert.Error(t, err)
}

func TestSnapshot_JSON(t *testing.T) {
	snap := NewSnapshot()
	snap.Projects["gtm"] = &ProjectSnapshot{
		Path:    "/src/gtm",
		Commits: []ArchivedCommit{{Info: CommitInfo{Hash: "abc"}, Note: sampleNote}},
		Status:  "[ver:1,total:0]",
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var loaded Snapshot
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, SnapshotVersion, loaded.Version)
	require.Contains(t, loaded.Projects, "gtm")
	assert.Equal(t, sampleNote, loaded.Projects["gtm"].Commits[0].Note)
}
