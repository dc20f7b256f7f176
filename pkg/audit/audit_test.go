package audit

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/otsaudit/pkg/classify"
	"github.com/matzehuels/otsaudit/pkg/config"
	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/errors"
	"github.com/matzehuels/otsaudit/pkg/observability"
)

type staticGraph struct {
	g   *deps.Graph
	err error
}

func (s staticGraph) Graph(context.Context) (*deps.Graph, error) { return s.g, s.err }

type metaMap map[string]*deps.ArtifactMetadata

func (m metaMap) Metadata(_ context.Context, c deps.Coordinate) (*deps.ArtifactMetadata, error) {
	if md, ok := m[c.String()]; ok {
		return md, nil
	}
	return nil, stderrors.New("not found")
}

func node(g, n, v string, children ...*deps.Node) *deps.Node {
	return &deps.Node{Coordinate: deps.Coordinate{Group: g, Name: n, Version: v}, Children: children}
}

// The application depends on spring-core (which pulls in commons-logging),
// a GPL library and one of its own modules.
func fixture() *deps.Graph {
	return &deps.Graph{
		Project: deps.Coordinate{Group: "com.acme", Name: "shop", Version: "1.0"},
		Modules: []deps.Module{{Name: "shop", Roots: []*deps.Node{
			node("org.springframework", "spring-core", "6.0.0", node("commons-logging", "commons-logging", "1.2")),
			node("org.gpl", "gpl-lib", "1.0"),
			node("com.acme", "acme-util", "1.0"),
		}}},
	}
}

var metadata = metaMap{
	"org.springframework:spring-core:6.0.0": {License: "Apache License, Version 2.0", URL: "https://spring.io"},
	"commons-logging:commons-logging:1.2":   {License: "Apache License, Version 2.0"},
	"org.gpl:gpl-lib:1.0":                   {License: "GNU General Public License v3.0"},
}

var latest = classify.LatestFunc(func(_ context.Context, group, name string) (string, error) {
	switch name {
	case "spring-core":
		return "6.0.0", nil
	case "commons-logging":
		return "1.3.4", nil
	case "gpl-lib":
		return "", classify.ErrNoVersion
	}
	return "", stderrors.New("unexpected lookup " + name)
})

func quietLogger() *log.Logger { return log.New(io.Discard) }

func newAuditor(t *testing.T, cfg config.Config) *Auditor {
	t.Helper()
	return New(cfg, staticGraph{g: fixture()}, metadata, latest, quietLogger())
}

func TestScan(t *testing.T) {
	a := newAuditor(t, config.Defaults())
	scan, err := a.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if scan.ID == "" || scan.Project() != "shop" {
		t.Errorf("scan = %+v", scan)
	}
	var names []string
	for _, art := range scan.Artifacts.All() {
		names = append(names, art.Name)
	}
	want := []string{"commons-logging", "spring-core", "gpl-lib"}
	if len(names) != len(want) {
		t.Fatalf("artifacts = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("artifacts = %v, want %v (post-order, own group excluded)", names, want)
		}
	}
	if a, _ := scan.Artifacts.Get(deps.Coordinate{Name: "spring-core"}); a.URL != "https://spring.io" {
		t.Errorf("metadata not resolved: %+v", a)
	}
}

func TestScanGraphError(t *testing.T) {
	a := New(config.Defaults(), staticGraph{err: stderrors.New("boom")}, nil, nil, quietLogger())
	if _, err := a.Scan(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newAuditor(t, config.Defaults()).Scan(ctx); !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLicenseCheck(t *testing.T) {
	dir := t.TempDir()
	permissive := filepath.Join(dir, "permissive.txt")
	if err := os.WriteFile(permissive, []byte("Apache License, Version 2.0\nMIT License\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// An empty file replaces the built-in GNU corpus.
	gnu := filepath.Join(dir, "gnu.txt")
	if err := os.WriteFile(gnu, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Defaults()
	cfg.LicenseFiles.Permissive = permissive
	cfg.LicenseFiles.GNU = gnu

	res, err := newAuditor(t, cfg).LicenseCheck(context.Background())
	if !errors.Is(err, errors.ErrCodeLicenseViolation) {
		t.Fatalf("err = %v, want LICENSE_VIOLATION", err)
	}
	var violation *errors.LicenseViolationError
	if !stderrors.As(err, &violation) || len(violation.Artifacts) != 1 || violation.Artifacts[0] != "org.gpl:gpl-lib:1.0" {
		t.Errorf("violation = %+v", violation)
	}
	if res == nil || len(res.Rejected) != 1 {
		t.Fatalf("result = %+v", res)
	}

	cfg.IgnoreFailures = true
	res, err = newAuditor(t, cfg).LicenseCheck(context.Background())
	if err != nil {
		t.Fatalf("IgnoreFailures: %v", err)
	}
	if len(res.Rejected) != 1 {
		t.Errorf("rejected = %d", len(res.Rejected))
	}

	cfg.IgnoreFailures = false
	cfg.AllowedLicenses = []string{"GNU General Public License v3.0"}
	if _, err := newAuditor(t, cfg).LicenseCheck(context.Background()); err != nil {
		t.Errorf("allow-listed: %v", err)
	}
}

func TestLicenseCheckBuiltinCorpora(t *testing.T) {
	tests := []struct {
		name     string
		denied   []string
		rejected []string
		apache   bool
	}{
		{"defaults approve every license", nil, nil, true},
		{"deny list rejects a builtin license", []string{"GNU General Public License v3.0"}, []string{"gpl-lib"}, true},
		{"deny list rejects apache", []string{"Apache License, Version 2.0"}, []string{"commons-logging", "spring-core"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.DisallowedLicenses = tt.denied
			cfg.IgnoreFailures = true
			res, err := newAuditor(t, cfg).LicenseCheck(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, a := range res.Rejected {
				got = append(got, a.Name)
			}
			if len(got) != len(tt.rejected) {
				t.Fatalf("rejected = %v, want %v", got, tt.rejected)
			}
			for i := range got {
				if got[i] != tt.rejected[i] {
					t.Errorf("rejected = %v, want %v", got, tt.rejected)
				}
			}
			if a, _ := res.Artifacts.Get(deps.Coordinate{Name: "spring-core"}); *a.AllowedLicense != tt.apache {
				t.Errorf("spring-core (Apache License, Version 2.0) approved = %v, want %v", *a.AllowedLicense, tt.apache)
			}
		})
	}
}

func TestUpToDate(t *testing.T) {
	res, err := newAuditor(t, config.Defaults()).UpToDate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || res.Outdated != 1 || res.TooOld != 0 {
		t.Errorf("result = %+v", res.FreshnessResult)
	}
	if len(res.Undetermined) != 1 || res.Undetermined[0].Name != "gpl-lib" {
		t.Errorf("undetermined = %+v", res.Undetermined)
	}
	if res.Artifacts.Len() != 2 {
		t.Errorf("undetermined artifacts should leave the set, len = %d", res.Artifacts.Len())
	}

	cfg := config.Defaults()
	cfg.AllowedOldMinorVersion = 0
	res, err = newAuditor(t, cfg).UpToDate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.TooOld != 1 {
		t.Errorf("TooOld = %d, want 1 (commons-logging 1.2 vs 1.3.4)", res.TooOld)
	}
}

func TestUpToDateWithoutLookup(t *testing.T) {
	a := New(config.Defaults(), staticGraph{g: fixture()}, metadata, nil, quietLogger())
	if _, err := a.UpToDate(context.Background()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestVersionReport(t *testing.T) {
	a := newAuditor(t, config.Defaults())

	res, err := a.VersionReport(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Delta || res.NewToRelease != 0 {
		t.Errorf("no previous: %+v", res)
	}
	for _, art := range res.Artifacts.All() {
		if art.NewToRelease != nil {
			t.Errorf("%s: NewToRelease set without previous snapshot", art.Name)
		}
	}

	prev, err := classify.ParseSnapshot("spring-core\t6.0.0\torg.springframework\thttps://spring.io\n" +
		"commons-logging\t1.1\tcommons-logging\t\n")
	if err != nil {
		t.Fatal(err)
	}
	res, err = a.VersionReport(context.Background(), prev)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Delta || res.NewToRelease != 2 {
		t.Errorf("NewToRelease = %d, want 2", res.NewToRelease)
	}
	if a, _ := res.Artifacts.Get(deps.Coordinate{Name: "spring-core"}); a.NewToRelease == nil || *a.NewToRelease {
		t.Error("spring-core was in the previous release")
	}
}

func TestPassesInAnyOrder(t *testing.T) {
	a := newAuditor(t, config.Defaults())
	scan, err := a.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	first, err := a.ClassifyLicenses(context.Background(), scan)
	if err != nil {
		t.Fatal(err)
	}
	a.MarkNew(context.Background(), scan, classify.NewSnapshot(nil))
	second, err := a.ClassifyLicenses(context.Background(), scan)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Errorf("license pass not idempotent: %d vs %d", len(first), len(second))
	}
}

type recordingHooks struct {
	observability.NoopScanHooks
	mu     sync.Mutex
	events []string
}

func (r *recordingHooks) OnScanStart(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "start")
}

func (r *recordingHooks) OnScanComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "complete")
}

func (r *recordingHooks) OnClassify(_ context.Context, pass string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, pass)
}

func TestScanHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetScanHooks(h)
	t.Cleanup(observability.Reset)

	cfg := config.Defaults()
	cfg.IgnoreFailures = true
	if _, err := newAuditor(t, cfg).LicenseCheck(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"start", "complete", "license"}
	if len(h.events) != len(want) {
		t.Fatalf("events = %v, want %v", h.events, want)
	}
	for i := range want {
		if h.events[i] != want[i] {
			t.Errorf("events = %v, want %v", h.events, want)
		}
	}
}
