// Package storage keeps release snapshots between audit runs.
//
// A snapshot is the dependency list a version report was produced from. The
// next release loads the latest stored snapshot of the same project and
// passes it to the release delta, so artifacts first shipped in that release
// are flagged as new.
//
// Three [SnapshotStore] backends exist:
//   - [MemorySnapshotStore]: in-process, for tests
//   - [FileSnapshotStore]: JSON files under a directory, for single machines
//   - [MongoSnapshotStore]: a MongoDB collection, shared across CI runners
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/otsaudit/pkg/classify"
	"github.com/matzehuels/otsaudit/pkg/deps"
)

// ErrNotFound is returned by Latest when a project has no stored snapshot.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one stored release snapshot.
type Snapshot struct {
	ID        string                   `bson:"_id" json:"id"` // Scan ID
	Project   string                   `bson:"project" json:"project"`
	CreatedAt time.Time                `bson:"created_at" json:"created_at"`
	Entries   []classify.SnapshotEntry `bson:"entries" json:"entries"`
}

// NewSnapshot builds a snapshot of artifacts for project, sorted by name.
// scanID is used as the snapshot ID; empty means a fresh UUID.
func NewSnapshot(scanID, project string, artifacts []*deps.Artifact) *Snapshot {
	if scanID == "" {
		scanID = uuid.NewString()
	}
	as := append([]*deps.Artifact(nil), artifacts...)
	deps.SortByName(as)
	return &Snapshot{
		ID:        scanID,
		Project:   project,
		CreatedAt: time.Now().UTC(),
		Entries:   classify.SnapshotFromArtifacts(as).Entries,
	}
}

// Delta returns the snapshot in the form the release delta consumes.
func (s *Snapshot) Delta() *classify.Snapshot {
	return classify.NewSnapshot(s.Entries)
}

// SnapshotStore is the interface for snapshot storage backends.
type SnapshotStore interface {
	// Save stores s. A missing ID or CreatedAt is filled in.
	Save(ctx context.Context, s *Snapshot) error

	// Latest returns the most recently created snapshot of project, or
	// ErrNotFound.
	Latest(ctx context.Context, project string) (*Snapshot, error)

	Close(ctx context.Context) error
}

func prepare(s *Snapshot) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
}
