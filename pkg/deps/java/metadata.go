package java

import (
	"context"

	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/integrations/maven"
)

// POMFetcher retrieves artifact POMs from a repository.
type POMFetcher interface {
	FetchPOM(ctx context.Context, group, name, version string) (*maven.POM, error)
}

// MetadataSource reads artifact metadata from POMs.
type MetadataSource struct {
	Fetcher POMFetcher
}

// Metadata implements [deps.MetadataSource]. Only the artifact's own POM is
// read; parents are walked by the caller through the returned Parent link.
// Values still holding ${...} references are reported as absent.
func (s MetadataSource) Metadata(ctx context.Context, c deps.Coordinate) (*deps.ArtifactMetadata, error) {
	pom, err := s.Fetcher.FetchPOM(ctx, c.Group, c.Name, c.Version)
	if err != nil {
		return nil, err
	}

	resolved := func(v string) string {
		v = pom.Interpolate(v, pom.Properties)
		if maven.Unresolved(v) {
			return ""
		}
		return v
	}

	md := &deps.ArtifactMetadata{
		URL:         resolved(pom.URL),
		Description: resolved(pom.Description),
	}
	if len(pom.Licenses) > 0 {
		md.License = resolved(pom.Licenses[0].Name)
		md.LicenseURL = resolved(pom.Licenses[0].URL)
	}
	if p := pom.Parent; p != nil && p.GroupID != "" && p.ArtifactID != "" && p.Version != "" {
		md.Parent = &deps.Coordinate{Group: p.GroupID, Name: p.ArtifactID, Version: p.Version}
	}
	return md, nil
}
