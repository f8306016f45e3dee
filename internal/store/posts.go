package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"postforge/internal/models"
)

// PostStore persists posts as one JSON record per line, in insertion
// order. Creation appends; every mutation rewrites the whole file.
// Assumes a single process owns the file.
type PostStore struct {
	path string
}

func NewPostStore(path string) *PostStore {
	return &PostStore{path: path}
}

// NewPost builds a fresh post with status "new".
func NewPost(sourceFile, content, model string, temperature float64) *models.Post {
	return &models.Post{
		ID:         uuid.New().String(),
		SourceFile: sourceFile,
		Content:    content,
		Metadata: models.PostMetadata{
			Model:       model,
			Temperature: temperature,
		},
		Timestamp: time.Now(),
		Status:    models.StatusNew,
	}
}

// Append adds one post to the end of the store. The record is synced to
// disk before Append returns. Append must never be used for updates.
func (s *PostStore) Append(post *models.Post) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	line, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open post store: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append post: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync post store: %w", err)
	}
	return nil
}

// ReadAll returns every post in original insertion order. A missing
// store file is an empty store, not an error.
func (s *PostStore) ReadAll() ([]*models.Post, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open post store: %w", err)
	}
	defer f.Close()

	var posts []*models.Post
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		post := &models.Post{}
		if err := json.Unmarshal(line, post); err != nil {
			return nil, fmt.Errorf("failed to parse post store line %d: %w", lineNo, err)
		}
		posts = append(posts, post)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read post store: %w", err)
	}
	return posts, nil
}

// WriteAll rewrites the whole store with the given posts, preserving
// their order. Writes go to a temp file first, then rename into place.
func (s *PostStore) WriteAll(posts []*models.Post) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, post := range posts {
		line, err := json.Marshal(post)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to marshal post %s: %w", post.ID, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to write post store: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to flush post store: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync post store: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close post store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace post store: %w", err)
	}
	return nil
}

// Update persists a changed post by rewriting the store. The post is
// matched by ID; order of all records is preserved.
func (s *PostStore) Update(post *models.Post) error {
	posts, err := s.ReadAll()
	if err != nil {
		return err
	}

	found := false
	for i, p := range posts {
		if p.ID == post.ID {
			posts[i] = post
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("post not found: %s", post.ID)
	}
	return s.WriteAll(posts)
}
