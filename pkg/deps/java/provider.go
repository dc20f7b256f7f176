package java

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/integrations/maven"
)

const (
	// DefaultMaxDepth bounds dependency tree resolution.
	DefaultMaxDepth = 25

	maxParentDepth = 16
)

// POMGraphProvider resolves a local Maven project into a [deps.Graph].
type POMGraphProvider struct {
	Path     string // Path to the project's pom.xml
	Fetcher  POMFetcher
	MaxDepth int // <= 0 means DefaultMaxDepth
	Logger   *log.Logger

	// ScanRootProject scans the root POM instead of its <modules>. A POM
	// without modules is always scanned itself.
	ScanRootProject bool

	// ExcludeModules names modules (by artifactId) to leave out.
	ExcludeModules []string
}

// NewPOMGraphProvider creates a provider for the pom.xml at path.
func NewPOMGraphProvider(path string, f POMFetcher, logger *log.Logger) *POMGraphProvider {
	return &POMGraphProvider{Path: path, Fetcher: f, Logger: logger}
}

// Graph implements [deps.GraphProvider].
func (p *POMGraphProvider) Graph(ctx context.Context) (*deps.Graph, error) {
	r := newResolver(p.Fetcher, p.MaxDepth, p.Logger)

	root, err := r.local(ctx, p.Path)
	if err != nil {
		return nil, err
	}
	g := &deps.Graph{Project: root.coordinate()}

	// Register modules first so inter-module dependencies resolve locally.
	dir := filepath.Dir(p.Path)
	byName := map[string]*effective{root.pom.ArtifactID: root}
	var subs []deps.Module
	for _, m := range root.pom.Modules {
		eff, err := r.local(ctx, filepath.Join(dir, m, "pom.xml"))
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", m, err)
		}
		r.modules[eff.coordinate().Module()] = eff
		byName[eff.pom.ArtifactID] = eff
		subs = append(subs, deps.Module{Name: eff.pom.ArtifactID})
	}

	selected := deps.SelectModules(deps.Module{Name: root.pom.ArtifactID}, subs, p.ScanRootProject, p.ExcludeModules)
	for _, m := range selected {
		m.Roots = r.children(ctx, byName[m.Name], 0)
		g.Modules = append(g.Modules, m)
	}
	return g, nil
}

// effective is a POM with its parent chain folded in.
type effective struct {
	pom     *maven.POM
	group   string
	version string
	props   maven.Properties
	managed map[string]string // group:name -> version
	deps    []maven.Dependency
}

func (e *effective) coordinate() deps.Coordinate {
	return deps.Coordinate{Group: e.group, Name: e.pom.ArtifactID, Version: e.version}
}

func (e *effective) interpolate(s string) string {
	return e.pom.Interpolate(s, e.props)
}

type resolver struct {
	fetcher  POMFetcher
	maxDepth int
	logger   *log.Logger

	nodes   map[string]*deps.Node // by group:name:version
	remote  map[string]*effective // by group:name:version
	failed  map[string]error      // remote POMs that could not be loaded
	modules map[string]*effective // local modules by group:name
	loading map[string]bool       // parent chain guard
}

func newResolver(f POMFetcher, maxDepth int, logger *log.Logger) *resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = log.Default()
	}
	return &resolver{
		fetcher:  f,
		maxDepth: maxDepth,
		logger:   logger,
		nodes:    make(map[string]*deps.Node),
		remote:   make(map[string]*effective),
		failed:   make(map[string]error),
		modules:  make(map[string]*effective),
		loading:  make(map[string]bool),
	}
}

// local loads a POM from disk. Its parent is read from relativePath
// (default ../pom.xml) when that file is the declared parent, otherwise from
// the repository.
func (r *resolver) local(ctx context.Context, path string) (*effective, error) {
	key := "file:" + filepath.Clean(path)
	if r.loading[key] {
		return nil, fmt.Errorf("parent cycle at %s", path)
	}
	r.loading[key] = true
	defer delete(r.loading, key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pom, err := maven.ParsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var parent *effective
	if pp := pom.Parent; pp != nil {
		rel := pp.RelativePath
		if rel == "" {
			rel = "../pom.xml"
		}
		ppath := filepath.Join(filepath.Dir(path), rel)
		if fi, err := os.Stat(ppath); err == nil && fi.IsDir() {
			ppath = filepath.Join(ppath, "pom.xml")
		}
		if lp, ok := r.localParent(ctx, ppath, pp); ok {
			parent = lp
		} else if parent, err = r.load(ctx, pp.GroupID, pp.ArtifactID, pp.Version, 1); err != nil {
			r.logger.Debug("parent unavailable", "pom", path, "err", err)
			parent = nil
		}
	}
	return r.fold(ctx, pom, parent), nil
}

func (r *resolver) localParent(ctx context.Context, path string, want *maven.Parent) (*effective, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	pom, err := maven.ParsePOM(data)
	if err != nil || pom.ArtifactID != want.ArtifactID || pom.Group() != want.GroupID {
		return nil, false
	}
	eff, err := r.local(ctx, path)
	if err != nil {
		return nil, false
	}
	return eff, true
}

// load fetches and folds a POM from the repository.
func (r *resolver) load(ctx context.Context, group, name, version string, depth int) (*effective, error) {
	key := group + ":" + name + ":" + version
	if eff, ok := r.remote[key]; ok {
		return eff, nil
	}
	if err, ok := r.failed[key]; ok {
		return nil, err
	}
	if r.loading[key] {
		return nil, fmt.Errorf("parent cycle at %s", key)
	}
	if depth > maxParentDepth {
		return nil, fmt.Errorf("parent chain too deep at %s", key)
	}
	r.loading[key] = true
	defer delete(r.loading, key)

	pom, err := r.fetcher.FetchPOM(ctx, group, name, version)
	if err != nil {
		r.failed[key] = err
		return nil, err
	}

	var parent *effective
	if pp := pom.Parent; pp != nil {
		parent, err = r.load(ctx, pp.GroupID, pp.ArtifactID, pp.Version, depth+1)
		if err != nil {
			r.logger.Debug("parent unavailable", "pom", key, "err", err)
		}
	}
	eff := r.fold(ctx, pom, parent)
	r.remote[key] = eff
	return eff, nil
}

// fold merges pom over its parent.
func (r *resolver) fold(ctx context.Context, pom *maven.POM, parent *effective) *effective {
	eff := &effective{
		pom:     pom,
		group:   pom.Group(),
		version: pom.ResolvedVersion(),
		props:   maven.Properties{},
		managed: make(map[string]string),
	}
	if parent != nil {
		for k, v := range parent.props {
			eff.props[k] = v
		}
		for k, v := range parent.managed {
			eff.managed[k] = v
		}
		eff.deps = append(eff.deps, parent.deps...)
	}
	for k, v := range pom.Properties {
		eff.props[k] = v
	}

	for _, d := range pom.DependencyManagement {
		g, a, v := eff.interpolate(d.GroupID), eff.interpolate(d.ArtifactID), eff.interpolate(d.Version)
		if maven.Unresolved(g + a + v) {
			continue
		}
		if d.Scope == "import" {
			bom, err := r.load(ctx, g, a, v, 1)
			if err != nil {
				r.logger.Debug("bom unavailable", "bom", g+":"+a+":"+v, "err", err)
				continue
			}
			for k, bv := range bom.managed {
				if _, ok := eff.managed[k]; !ok {
					eff.managed[k] = bv
				}
			}
			continue
		}
		eff.managed[g+":"+a] = v
	}

	// Own dependencies replace inherited ones for the same artifact.
	for _, d := range pom.Dependencies {
		replaced := false
		for i, pd := range eff.deps {
			if pd.GroupID == d.GroupID && pd.ArtifactID == d.ArtifactID {
				eff.deps[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			eff.deps = append(eff.deps, d)
		}
	}
	return eff
}

// children resolves the runtime dependencies of eff into nodes.
func (r *resolver) children(ctx context.Context, eff *effective, depth int) []*deps.Node {
	var out []*deps.Node
	for _, d := range eff.deps {
		if !d.Runtime() {
			continue
		}
		g, a := eff.interpolate(d.GroupID), eff.interpolate(d.ArtifactID)
		v := eff.interpolate(d.Version)
		if v == "" {
			v = eff.managed[g+":"+a]
		}
		if g == "" || a == "" || v == "" || maven.Unresolved(g+a+v) {
			r.logger.Debug("skipping unresolved dependency", "from", eff.coordinate().String(), "dependency", g+":"+a+":"+v)
			continue
		}
		out = append(out, r.node(ctx, g, a, v, depth))
	}
	return out
}

func (r *resolver) node(ctx context.Context, group, name, version string, depth int) *deps.Node {
	key := group + ":" + name + ":" + version
	if n, ok := r.nodes[key]; ok {
		return n
	}
	n := &deps.Node{Coordinate: deps.Coordinate{Group: group, Name: name, Version: version}}
	r.nodes[key] = n

	if depth+1 >= r.maxDepth {
		return n
	}
	if eff, ok := r.modules[group+":"+name]; ok {
		n.Children = r.children(ctx, eff, depth+1)
		return n
	}
	eff, err := r.load(ctx, group, name, version, 1)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Debug("pom unavailable", "artifact", key, "err", err)
		}
		return n
	}
	n.Children = r.children(ctx, eff, depth+1)
	return n
}
