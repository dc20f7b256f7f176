package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// FileSnapshotStore stores snapshots as JSON files, one directory per
// project.
type FileSnapshotStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileSnapshotStore creates a file store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/otsaudit/snapshots/
func NewFileSnapshotStore(baseDir string) (*FileSnapshotStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "otsaudit", "snapshots")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileSnapshotStore{baseDir: baseDir}, nil
}

func (f *FileSnapshotStore) projectDir(project string) string {
	return filepath.Join(f.baseDir, url.PathEscape(project))
}

func (f *FileSnapshotStore) Save(_ context.Context, s *Snapshot) error {
	prepare(s)
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := f.projectDir(s.Project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, s.ID+".json"), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

// Latest decodes every snapshot of project and returns the newest.
// Unreadable files are skipped.
func (f *FileSnapshotStore) Latest(_ context.Context, project string) (*Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	dir := f.projectDir(project)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	var latest *Snapshot
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = &s
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (f *FileSnapshotStore) Close(context.Context) error { return nil }

// Path returns the base directory for snapshot files.
func (f *FileSnapshotStore) Path() string {
	return f.baseDir
}

var _ SnapshotStore = (*FileSnapshotStore)(nil)
