// Package audit runs the dependency audit passes over a project.
//
// An [Auditor] resolves the project's dependency graph once per [Auditor.Scan]
// and flattens it into an artifact set. The classification passes (license
// approval, version freshness and the release delta) each read and annotate
// that set independently, so they can run in any order on the same scan:
//
//	a := audit.New(cfg, provider, metadata, mavenClient, logger)
//	scan, err := a.Scan(ctx)
//	rejected, err := a.ClassifyLicenses(ctx, scan)
//	fresh, err := a.ClassifyFreshness(ctx, scan)
//
// [Auditor.VersionReport], [Auditor.UpToDate] and [Auditor.LicenseCheck]
// bundle a scan with one pass each.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/otsaudit/pkg/classify"
	"github.com/matzehuels/otsaudit/pkg/config"
	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/errors"
	"github.com/matzehuels/otsaudit/pkg/observability"
)

// Auditor runs audits for one configuration. It holds no per-scan state;
// every Scan starts from the graph provider again.
type Auditor struct {
	Config   config.Config
	Graph    deps.GraphProvider
	Metadata deps.MetadataSource          // nil records coordinates only
	Latest   classify.LatestVersionLookup // Needed by the freshness pass only
	Logger   *log.Logger
}

// New creates an Auditor. A nil logger means log.Default().
func New(cfg config.Config, graph deps.GraphProvider, meta deps.MetadataSource, latest classify.LatestVersionLookup, logger *log.Logger) *Auditor {
	if logger == nil {
		logger = log.Default()
	}
	return &Auditor{Config: cfg, Graph: graph, Metadata: meta, Latest: latest, Logger: logger}
}

// Scan is the flattened result of one graph resolution.
type Scan struct {
	ID         string
	Graph      *deps.Graph
	Exclusions deps.Exclusions
	Artifacts  *deps.ArtifactSet
	Duration   time.Duration
}

// Project returns the scanned project's name.
func (s *Scan) Project() string { return s.Graph.Project.Name }

// Scan resolves the dependency graph and flattens it into artifacts with
// resolved metadata.
func (a *Auditor) Scan(ctx context.Context) (scan *Scan, err error) {
	id := uuid.NewString()
	logger := a.Logger.With("scan", id[:8])
	start := time.Now()
	observability.Scan().OnScanStart(ctx, id)
	defer func() {
		n := 0
		if scan != nil {
			n = scan.Artifacts.Len()
		}
		observability.Scan().OnScanComplete(ctx, id, n, time.Since(start), err)
	}()

	g, err := a.Graph.Graph(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve graph: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	excl := a.Config.Exclusions(g.Project.Group)
	opts := deps.FlattenOptions{Key: a.Config.KeyFunc(), Logger: logger}
	if a.Metadata != nil {
		opts.Resolver = deps.NewMetadataResolver(a.Metadata, a.Config.MetadataOverrides(), logger)
	}
	set := deps.FlattenGraph(ctx, g, excl, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scan = &Scan{ID: id, Graph: g, Exclusions: excl, Artifacts: set, Duration: time.Since(start)}
	logger.Info("scanned dependencies",
		"project", g.Project.Name,
		"modules", len(g.Modules),
		"artifacts", set.Len(),
		"duration", scan.Duration)
	return scan, nil
}

// ClassifyLicenses runs the license pass and returns the rejected artifacts.
func (a *Auditor) ClassifyLicenses(ctx context.Context, scan *Scan) ([]*deps.Artifact, error) {
	corpora, err := a.Config.Corpora()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	c := &classify.LicenseClassifier{
		Corpora: corpora,
		Allowed: a.Config.AllowedLicenses,
		Denied:  a.Config.DisallowedLicenses,
		Logger:  a.Logger,
	}
	rejected := c.Classify(ctx, scan.Artifacts)
	observability.Scan().OnClassify(ctx, "license", len(rejected), time.Since(start))
	return rejected, nil
}

// ClassifyFreshness runs the freshness pass. Undetermined artifacts are
// moved out of the scan's set into the result.
func (a *Auditor) ClassifyFreshness(ctx context.Context, scan *Scan) (*classify.FreshnessResult, error) {
	if a.Latest == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no latest-version lookup configured")
	}
	start := time.Now()
	c := &classify.FreshnessClassifier{
		Lookup:       a.Latest,
		AllowedMajor: a.Config.AllowedOldMajorVersion,
		AllowedMinor: a.Config.AllowedOldMinorVersion,
		Workers:      a.Config.Workers,
		Logger:       a.Logger,
	}
	res, err := c.Classify(ctx, scan.Artifacts)
	if err != nil {
		return nil, err
	}
	observability.Scan().OnClassify(ctx, "freshness", res.TooOld, time.Since(start))
	return res, nil
}

// MarkNew runs the release delta against previous and returns the number
// of artifacts new to this release. A nil previous snapshot leaves the
// artifacts unmarked.
func (a *Auditor) MarkNew(ctx context.Context, scan *Scan, previous *classify.Snapshot) int {
	start := time.Now()
	n := classify.MarkNew(scan.Artifacts, previous)
	if previous != nil {
		observability.Scan().OnClassify(ctx, "delta", n, time.Since(start))
	}
	return n
}

// VersionResult is the outcome of [Auditor.VersionReport].
type VersionResult struct {
	*Scan
	Delta        bool // A previous snapshot was compared
	NewToRelease int
}

// VersionReport scans and, when previous is non-nil, marks artifacts new to
// the release.
func (a *Auditor) VersionReport(ctx context.Context, previous *classify.Snapshot) (*VersionResult, error) {
	scan, err := a.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &VersionResult{Scan: scan, Delta: previous != nil, NewToRelease: a.MarkNew(ctx, scan, previous)}, nil
}

// UpToDateResult is the outcome of [Auditor.UpToDate].
type UpToDateResult struct {
	*Scan
	*classify.FreshnessResult
}

// UpToDate scans and compares every artifact against its latest stable
// version.
func (a *Auditor) UpToDate(ctx context.Context) (*UpToDateResult, error) {
	scan, err := a.Scan(ctx)
	if err != nil {
		return nil, err
	}
	res, err := a.ClassifyFreshness(ctx, scan)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("version freshness",
		"outdated", res.Outdated,
		"tooOld", res.TooOld,
		"nonDetermined", len(res.Undetermined),
		"total", res.Total)
	return &UpToDateResult{Scan: scan, FreshnessResult: res}, nil
}

// LicenseResult is the outcome of [Auditor.LicenseCheck].
type LicenseResult struct {
	*Scan
	Rejected []*deps.Artifact
}

// LicenseCheck scans and classifies licenses. When any artifact is rejected
// and failures are not ignored, the result is returned together with a
// LICENSE_VIOLATION error wrapping an [errors.LicenseViolationError].
func (a *Auditor) LicenseCheck(ctx context.Context) (*LicenseResult, error) {
	scan, err := a.Scan(ctx)
	if err != nil {
		return nil, err
	}
	rejected, err := a.ClassifyLicenses(ctx, scan)
	if err != nil {
		return nil, err
	}
	res := &LicenseResult{Scan: scan, Rejected: rejected}
	a.Logger.Info(fmt.Sprintf("Number of OTS SW with disallowed licenses: %d", len(rejected)))
	if len(rejected) == 0 || a.Config.IgnoreFailures {
		return res, nil
	}
	names := make([]string, len(rejected))
	for i, r := range rejected {
		names[i] = r.String()
	}
	violation := &errors.LicenseViolationError{Artifacts: names}
	return res, errors.Wrap(errors.ErrCodeLicenseViolation, violation, "%s: %s", violation.Error(), strings.Join(names, ", "))
}
