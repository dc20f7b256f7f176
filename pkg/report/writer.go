package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/matzehuels/otsaudit/pkg/classify"
	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/errors"
)

// Writer places reports in Dir under their conventional file names.
type Writer struct {
	Dir string
	Options
}

// NewWriter returns a Writer for dir. sep must be a single character; an
// empty sep means ','.
func NewWriter(dir, sep string, extraInfo []string) Writer {
	var r rune
	if sep != "" {
		r, _ = utf8.DecodeRuneInString(sep)
	}
	return Writer{Dir: dir, Options: Options{Separator: r, ExtraInfo: extraInfo}}
}

// VersionReport writes the version report and returns its path.
func (w Writer) VersionReport(as []*deps.Artifact, delta bool) (string, error) {
	return w.export(VersionReportFile, func(f io.Writer) error {
		return WriteVersionReport(f, as, delta, w.Options)
	})
}

// UpToDateReport writes the up-to-date report and returns its path.
func (w Writer) UpToDateReport(as, undetermined []*deps.Artifact) (string, error) {
	return w.export(UpToDateReportFile, func(f io.Writer) error {
		return WriteUpToDateReport(f, as, undetermined, w.Options)
	})
}

// LicenseReport writes the license report and returns its path.
func (w Writer) LicenseReport(as []*deps.Artifact) (string, error) {
	return w.export(LicenseReportFile, func(f io.Writer) error {
		return WriteLicenseReport(f, as, w.Options)
	})
}

// Snapshot writes the release snapshot and returns its path.
func (w Writer) Snapshot(as []*deps.Artifact) (string, error) {
	return w.export(SnapshotFile, func(f io.Writer) error {
		return WriteSnapshot(f, as)
	})
}

func (w Writer) export(name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", w.Dir, err)
	}
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// ReadSnapshot reads a snapshot file written by [WriteSnapshot] or by hand.
func ReadSnapshot(path string) (*classify.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read snapshot %s", path)
	}
	s, err := classify.ParseSnapshot(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "parse %s", path)
	}
	return s, nil
}
