package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/otsaudit/pkg/classify"
	"github.com/matzehuels/otsaudit/pkg/deps"
)

// Report file names.
const (
	VersionReportFile  = "otsSwVersionReport.csv"
	UpToDateReportFile = "otsSwVersionUpToDateReport.csv"
	LicenseReportFile  = "otsSwLicenseReport.csv"
	SnapshotFile       = "otsSwSnapshot.tsv"
)

// Options control report formatting.
type Options struct {
	Separator rune     // Field separator; zero means ','
	ExtraInfo []string // Lines written verbatim before the header
}

// baseHeader starts every artifact report; each report appends its own columns.
var baseHeader = []string{"name", "version", "group", "license", "licenseUrl", "url", "description"}

var notDetHeader = []string{"name", "version", "group"}

func withColumns(cols ...string) []string {
	return append(baseHeader[:len(baseHeader):len(baseHeader)], cols...)
}

func baseRow(a *deps.Artifact, cols ...string) []string {
	return append([]string{a.Name, a.Version, a.Group, a.License, a.LicenseURL, a.URL, a.Description}, cols...)
}

// NotDeterminedTitle introduces the block of artifacts whose latest version
// could not be determined.
const NotDeterminedTitle = "Latest version not determined for:"

// WriteVersionReport writes the version report. With delta set, a
// newToRelease column is added.
func WriteVersionReport(w io.Writer, as []*deps.Artifact, delta bool, opts Options) error {
	header := baseHeader
	if delta {
		header = withColumns("newToRelease")
	}
	return writeTable(w, opts, header, sorted(as), func(a *deps.Artifact) []string {
		if delta {
			return baseRow(a, formatBool(a.NewToRelease))
		}
		return baseRow(a)
	})
}

// WriteUpToDateReport writes the up-to-date report followed, when non-empty,
// by a block listing the undetermined artifacts.
func WriteUpToDateReport(w io.Writer, as, undetermined []*deps.Artifact, opts Options) error {
	header := withColumns("latestVersion", "isLatest", "isTooOld")
	err := writeTable(w, opts, header, sorted(as), func(a *deps.Artifact) []string {
		latest := a.IsLatest()
		return baseRow(a, a.LatestVersion, formatBool(&latest), formatBool(a.TooOld))
	})
	if err != nil || len(undetermined) == 0 {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", NotDeterminedTitle); err != nil {
		return err
	}
	return writeTable(w, Options{Separator: opts.Separator}, notDetHeader, sorted(undetermined), func(a *deps.Artifact) []string {
		return []string{a.Name, a.Version, a.Group}
	})
}

// WriteLicenseReport writes the license report.
func WriteLicenseReport(w io.Writer, as []*deps.Artifact, opts Options) error {
	return writeTable(w, opts, withColumns("allowed"), sorted(as), func(a *deps.Artifact) []string {
		return baseRow(a, formatBool(a.AllowedLicense))
	})
}

// WriteSnapshot writes artifacts in the tab-delimited snapshot format that
// a later release reads as its previous snapshot.
func WriteSnapshot(w io.Writer, as []*deps.Artifact) error {
	_, err := io.WriteString(w, classify.SnapshotFromArtifacts(sorted(as)).Text())
	return err
}

func writeTable(w io.Writer, opts Options, header []string, as []*deps.Artifact, row func(*deps.Artifact) []string) error {
	for _, line := range opts.ExtraInfo {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if opts.Separator != 0 {
		cw.Comma = opts.Separator
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range as {
		if err := cw.Write(row(a)); err != nil {
			return fmt.Errorf("write %s: %w", a.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func sorted(as []*deps.Artifact) []*deps.Artifact {
	out := append([]*deps.Artifact(nil), as...)
	deps.SortByName(out)
	return out
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
