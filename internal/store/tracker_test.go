package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTrackerUnknownFile(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTracker(filepath.Join(dir, "processed.json"))
	require.NoError(t, err)

	path := writeTranscript(t, dir, "a.md", "hello")
	assert.False(t, tr.IsProcessed(path))
}

func TestTrackerMarkThenSkip(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "processed.json")
	tr, err := NewTracker(statePath)
	require.NoError(t, err)

	path := writeTranscript(t, dir, "a.md", "hello")
	require.NoError(t, tr.MarkProcessed(path, 3))
	assert.True(t, tr.IsProcessed(path))

	// State is saved immediately, so a fresh tracker agrees.
	tr2, err := NewTracker(statePath)
	require.NoError(t, err)
	assert.True(t, tr2.IsProcessed(path))
}

func TestTrackerModifiedFileInvalidatesRecord(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTracker(filepath.Join(dir, "processed.json"))
	require.NoError(t, err)

	path := writeTranscript(t, dir, "a.md", "hello")
	require.NoError(t, tr.MarkProcessed(path, 1))
	require.True(t, tr.IsProcessed(path))

	// Simulate an edit with a definitely-different mtime.
	newTime := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(path, newTime, newTime))
	assert.False(t, tr.IsProcessed(path))
}

func TestTrackerStatFailureFailsOpen(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTracker(filepath.Join(dir, "processed.json"))
	require.NoError(t, err)

	path := writeTranscript(t, dir, "a.md", "hello")
	require.NoError(t, tr.MarkProcessed(path, 1))
	require.NoError(t, os.Remove(path))

	// A file we cannot stat must never be silently skipped.
	assert.False(t, tr.IsProcessed(path))
}

func TestTrackerIsProcessedDoesNotMutate(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "processed.json")
	tr, err := NewTracker(statePath)
	require.NoError(t, err)

	path := writeTranscript(t, dir, "a.md", "hello")
	tr.IsProcessed(path)
	tr.IsProcessed(path)

	_, err = os.Stat(statePath)
	assert.True(t, os.IsNotExist(err), "querying must not create state")
	assert.Empty(t, tr.records)
}

func TestTrackerRecordFields(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTracker(filepath.Join(dir, "processed.json"))
	require.NoError(t, err)

	path := writeTranscript(t, dir, "a.md", "hello")
	require.NoError(t, tr.MarkProcessed(path, 4))

	rec := tr.records[path]
	assert.Equal(t, path, rec.Path)
	assert.Equal(t, 4, rec.PostsGenerated)
	assert.NotEmpty(t, rec.ProcessedAt)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime().UTC().Format(time.RFC3339Nano), rec.ModifiedAt)
}

func TestTrackerCorruptStateFile(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "processed.json")
	require.NoError(t, os.WriteFile(statePath, []byte("not json"), 0o644))

	_, err := NewTracker(statePath)
	require.Error(t, err)
}
