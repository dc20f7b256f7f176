package classify

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/matzehuels/otsaudit/pkg/deps"
)

// SnapshotEntry is one line of a release snapshot.
type SnapshotEntry struct {
	Name    string `bson:"name" json:"name"`
	Version string `bson:"version" json:"version"`
	Group   string `bson:"group" json:"group"`
	URL     string `bson:"url" json:"url"`
}

// Snapshot is the dependency list of a previous release. The raw text is
// what [MarkNew] matches against; Entries is its parsed form.
type Snapshot struct {
	Entries []SnapshotEntry
	raw     string
}

// ParseSnapshot parses tab-delimited "name version group url" lines. Blank
// lines are skipped and missing trailing fields are left empty. A line
// without a name is an error.
func ParseSnapshot(text string) (*Snapshot, error) {
	s := &Snapshot{raw: text}
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if strings.TrimSpace(f[0]) == "" {
			return nil, fmt.Errorf("line %d: missing name", n)
		}
		var e SnapshotEntry
		for i, v := range f {
			switch i {
			case 0:
				e.Name = v
			case 1:
				e.Version = v
			case 2:
				e.Group = v
			case 3:
				e.URL = v
			}
		}
		s.Entries = append(s.Entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// SnapshotFromArtifacts builds a snapshot from artifacts in the given order.
func SnapshotFromArtifacts(as []*deps.Artifact) *Snapshot {
	s := &Snapshot{}
	for _, a := range as {
		s.Entries = append(s.Entries, SnapshotEntry{Name: a.Name, Version: a.Version, Group: a.Group, URL: a.URL})
	}
	s.raw = s.render()
	return s
}

// NewSnapshot builds a snapshot from parsed entries.
func NewSnapshot(entries []SnapshotEntry) *Snapshot {
	s := &Snapshot{Entries: entries}
	s.raw = s.render()
	return s
}

// Text returns the snapshot in its tab-delimited text form.
func (s *Snapshot) Text() string {
	if s == nil {
		return ""
	}
	return s.raw
}

func (s *Snapshot) render() string {
	var b strings.Builder
	for _, e := range s.Entries {
		b.WriteString(e.Name)
		b.WriteByte('\t')
		b.WriteString(e.Version)
		b.WriteByte('\t')
		b.WriteString(e.Group)
		b.WriteByte('\t')
		b.WriteString(e.URL)
		b.WriteByte('\n')
	}
	return b.String()
}

// MarkNew sets NewToRelease on every artifact: true when its name and
// version, as the tab-joined "name\tversion" pair of a snapshot line, do not
// occur anywhere in the previous snapshot text. An artifact whose version
// changed since the previous release is therefore new. With a nil previous
// snapshot it does nothing and returns 0. It returns the number of new
// artifacts.
func MarkNew(set *deps.ArtifactSet, previous *Snapshot) int {
	if previous == nil {
		return 0
	}
	text := previous.Text()
	n := 0
	for _, a := range set.All() {
		isNew := !strings.Contains(text, a.Name+"\t"+a.Version)
		a.NewToRelease = &isNew
		if isNew {
			n++
		}
	}
	return n
}
