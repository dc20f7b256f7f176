package storage

import (
	"context"
	"sync"
)

// MemorySnapshotStore keeps snapshots in memory.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string][]Snapshot
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snapshots: make(map[string][]Snapshot)}
}

func (m *MemorySnapshotStore) Save(_ context.Context, s *Snapshot) error {
	prepare(s)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.Project] = append(m.snapshots[s.Project], *s)
	return nil
}

func (m *MemorySnapshotStore) Latest(_ context.Context, project string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *Snapshot
	for i := range m.snapshots[project] {
		s := &m.snapshots[project][i]
		if latest == nil || !s.CreatedAt.Before(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (m *MemorySnapshotStore) Close(context.Context) error { return nil }

var _ SnapshotStore = (*MemorySnapshotStore)(nil)
