package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ProcessedFileRecord remembers one pass over a source transcript.
// ModifiedAt holds the transcript's mtime at processing time; any edit
// to the transcript invalidates the record.
type ProcessedFileRecord struct {
	Path           string `json:"path"`
	ProcessedAt    string `json:"processed_at"`
	ModifiedAt     string `json:"modified_at"`
	PostsGenerated int    `json:"posts_generated"`
}

// Tracker decides which transcripts were already converted so repeated
// runs never duplicate work. State is saved after every MarkProcessed,
// so a crash mid-run keeps the documents that already completed.
type Tracker struct {
	path    string
	records map[string]ProcessedFileRecord
}

// NewTracker loads tracker state from disk. A missing state file means
// nothing was processed yet.
func NewTracker(path string) (*Tracker, error) {
	t := &Tracker{
		path:    path,
		records: make(map[string]ProcessedFileRecord),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("failed to read processed-file state: %w", err)
	}
	if err := json.Unmarshal(data, &t.records); err != nil {
		return nil, fmt.Errorf("failed to parse processed-file state: %w", err)
	}
	return t, nil
}

// modTime returns the normalized modification timestamp of path.
// Comparison against stored records is string-exact.
func modTime(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return info.ModTime().UTC().Format(time.RFC3339Nano), nil
}

// IsProcessed reports whether path was already converted and has not
// changed since. A stat failure counts as not processed: reprocessing
// is always safer than silently skipping. Never mutates state.
func (t *Tracker) IsProcessed(path string) bool {
	rec, ok := t.records[path]
	if !ok {
		return false
	}
	current, err := modTime(path)
	if err != nil {
		return false
	}
	return rec.ModifiedAt == current
}

// MarkProcessed records a completed pass over path and saves state
// immediately.
func (t *Tracker) MarkProcessed(path string, postsGenerated int) error {
	current, err := modTime(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	t.records[path] = ProcessedFileRecord{
		Path:           path,
		ProcessedAt:    time.Now().UTC().Format(time.RFC3339Nano),
		ModifiedAt:     current,
		PostsGenerated: postsGenerated,
	}
	return t.save()
}

func (t *Tracker) save() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(t.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal processed-file state: %w", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write processed-file state: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace processed-file state: %w", err)
	}
	return nil
}
