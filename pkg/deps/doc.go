// Package deps flattens a resolved dependency graph into a deduplicated set of
// third-party artifacts, each enriched with license, URL and description
// metadata.
//
// # Overview
//
// A build's dependency graph arrives as a forest of [Node] values, produced by
// a [GraphProvider] (a Maven POM walker, an exported tree file, ...). [Flatten]
// visits that forest depth-first in post-order and collects one [Artifact] per
// distinct key into an [ArtifactSet]:
//
//	set := deps.Flatten(ctx, graph.Modules[0].Roots, deps.Exclusions{
//	    Groups:   []string{"com.example.internal"},
//	    OwnGroup: "com.example",
//	    RootName: "my-app",
//	}, deps.FlattenOptions{Resolver: resolver})
//
// # Exclusion Rules
//
// A node is collected only when all of the following hold:
//
//   - its group differs from the scanned project's name (RootName)
//   - its group is not one of the excluded groups (plus OwnGroup, when set)
//   - no artifact with the same key has been collected yet
//
// Children are always visited before their parent is considered, so the first
// post-order visit of a key wins and later visits are no-ops.
//
// # Dedup Key
//
// The key defaults to [NameKey], the bare artifact name. Two groups publishing
// the same artifact name therefore collide; pass [CoordinateKey] in
// [FlattenOptions] to key on the full group:name:version instead.
//
// # Metadata
//
// [MetadataResolver] builds each artifact from a [MetadataSource]. Missing
// license and URL fields are inherited from the parent POM chain, then filled
// from user [Overrides]. Descriptions are never inherited.
package deps
