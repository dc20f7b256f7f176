package deps

import (
	"context"

	"github.com/charmbracelet/log"
)

// maxParentDepth bounds the parent POM walk.
const maxParentDepth = 32

// ArtifactMetadata is what an artifact repository knows about one coordinate.
type ArtifactMetadata struct {
	License     string
	LicenseURL  string
	URL         string
	Description string
	Parent      *Coordinate // Parent artifact, nil at the top of the chain
}

// MetadataSource looks up repository metadata for a coordinate.
type MetadataSource interface {
	Metadata(ctx context.Context, c Coordinate) (*ArtifactMetadata, error)
}

// Overrides supply metadata for artifacts whose POMs lack it. Maps are keyed
// by "group:name:version".
type Overrides struct {
	License     map[string]string
	URL         map[string]string
	Description map[string]string
}

// Resolver builds the artifact record for a graph node.
type Resolver interface {
	Resolve(ctx context.Context, n *Node) *Artifact
}

// MetadataResolver resolves artifact metadata from a [MetadataSource],
// inheriting license and URL from parent artifacts and finally from
// [Overrides]. It never fails: a field nobody supplies stays empty.
type MetadataResolver struct {
	Source    MetadataSource
	Overrides Overrides
	Logger    *log.Logger
}

// NewMetadataResolver creates a resolver. A nil logger means log.Default().
func NewMetadataResolver(src MetadataSource, ov Overrides, logger *log.Logger) *MetadataResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &MetadataResolver{Source: src, Overrides: ov, Logger: logger}
}

// Resolve implements [Resolver].
func (r *MetadataResolver) Resolve(ctx context.Context, n *Node) *Artifact {
	a := &Artifact{Coordinate: n.Coordinate}

	own := r.lookup(ctx, n.Coordinate)
	if own != nil {
		a.License = own.License
		a.LicenseURL = own.LicenseURL
		a.URL = own.URL
		a.Description = own.Description
	}

	if a.License == "" && own != nil {
		if md := r.inherit(ctx, own.Parent, func(m *ArtifactMetadata) bool { return m.License != "" }); md != nil {
			a.License = md.License
			a.LicenseURL = md.LicenseURL
		}
	}
	if a.URL == "" && own != nil {
		if md := r.inherit(ctx, own.Parent, func(m *ArtifactMetadata) bool { return m.URL != "" }); md != nil {
			a.URL = md.URL
		}
	}

	r.applyOverrides(a)
	return a
}

// inherit walks the parent chain starting at parent and returns the first
// metadata accepted by has.
func (r *MetadataResolver) inherit(ctx context.Context, parent *Coordinate, has func(*ArtifactMetadata) bool) *ArtifactMetadata {
	seen := make(map[string]bool)
	for depth := 0; parent != nil && depth < maxParentDepth; depth++ {
		key := parent.String()
		if seen[key] {
			r.Logger.Debug("parent cycle", "coordinate", key)
			return nil
		}
		seen[key] = true

		md := r.lookup(ctx, *parent)
		if md == nil {
			return nil
		}
		if has(md) {
			return md
		}
		parent = md.Parent
	}
	return nil
}

func (r *MetadataResolver) lookup(ctx context.Context, c Coordinate) *ArtifactMetadata {
	if r.Source == nil {
		return nil
	}
	md, err := r.Source.Metadata(ctx, c)
	if err != nil {
		r.Logger.Debug("metadata unavailable", "coordinate", c.String(), "err", err)
		return nil
	}
	return md
}

func (r *MetadataResolver) applyOverrides(a *Artifact) {
	key := a.Coordinate.String()
	if a.License == "" {
		if v, ok := r.Overrides.License[key]; ok {
			a.License = v
		}
	}
	if a.URL == "" {
		if v, ok := r.Overrides.URL[key]; ok {
			a.URL = v
		}
	}
	if a.Description == "" {
		if v, ok := r.Overrides.Description[key]; ok {
			a.Description = v
		}
	}
}
