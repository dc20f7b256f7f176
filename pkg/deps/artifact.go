package deps

import (
	"slices"
	"strings"
)

// Artifact is one third-party dependency of a scan together with its
// classification results.
//
// Optional results are pointers: nil means the corresponding classification has
// not run, or could not decide.
type Artifact struct {
	Coordinate
	License     string // Empty when no source supplied one
	LicenseURL  string
	URL         string // Project URL
	Description string

	NewToRelease   *bool  // Set by the release delta; nil without a previous snapshot
	LatestVersion  string // Set by the freshness pass; empty when undetermined
	AllowedLicense *bool  // Set by the license pass
	TooOld         *bool  // Set by the freshness pass; nil when undetermined
}

// IsLatest reports whether the artifact's version is exactly the latest known
// version. String equality, not semantic equality.
func (a *Artifact) IsLatest() bool {
	return a.LatestVersion != "" && a.Version == a.LatestVersion
}

// ArtifactSet holds at most one artifact per key, in insertion order.
// It is not safe for concurrent use.
type ArtifactSet struct {
	key   KeyFunc
	order []string
	items map[string]*Artifact
}

// NewArtifactSet creates an empty set keyed by key. A nil key means [NameKey].
func NewArtifactSet(key KeyFunc) *ArtifactSet {
	if key == nil {
		key = NameKey
	}
	return &ArtifactSet{key: key, items: make(map[string]*Artifact)}
}

// Key returns the set's key for c.
func (s *ArtifactSet) Key(c Coordinate) string { return s.key(c) }

// Has reports whether an artifact with the same key as c is present.
func (s *ArtifactSet) Has(c Coordinate) bool {
	_, ok := s.items[s.key(c)]
	return ok
}

// Add inserts a unless an artifact with the same key exists. It reports
// whether a was inserted.
func (s *ArtifactSet) Add(a *Artifact) bool {
	k := s.key(a.Coordinate)
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = a
	s.order = append(s.order, k)
	return true
}

// Get returns the artifact stored under c's key.
func (s *ArtifactSet) Get(c Coordinate) (*Artifact, bool) {
	a, ok := s.items[s.key(c)]
	return a, ok
}

// Remove deletes the artifact stored under c's key, if any.
func (s *ArtifactSet) Remove(c Coordinate) {
	k := s.key(c)
	if _, ok := s.items[k]; !ok {
		return
	}
	delete(s.items, k)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == k })
}

// Len returns the number of artifacts.
func (s *ArtifactSet) Len() int { return len(s.order) }

// All returns the artifacts in insertion order.
func (s *ArtifactSet) All() []*Artifact {
	out := make([]*Artifact, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}

// Sorted returns the artifacts ordered case-insensitively by name, the order
// used by every report.
func (s *ArtifactSet) Sorted() []*Artifact {
	out := s.All()
	SortByName(out)
	return out
}

// SortByName orders artifacts case-insensitively by name, then by group and
// version so the order is total.
func SortByName(as []*Artifact) {
	slices.SortStableFunc(as, func(a, b *Artifact) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		if c := strings.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})
}

// Count returns how many artifacts satisfy pred.
func (s *ArtifactSet) Count(pred func(*Artifact) bool) int {
	n := 0
	for _, k := range s.order {
		if pred(s.items[k]) {
			n++
		}
	}
	return n
}
