// Package render draws the resolved dependency graph as a node-link diagram.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	dot := render.ToDOT(g, set, excl, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// The DOT source can also be written out and processed with external
// Graphviz tools.
//
// # Annotations
//
// Nodes are colored by the classification results found in the artifact
// set passed to [ToDOT]:
//
//   - disallowed license: red fill
//   - too old: amber fill
//   - excluded from the scan: dashed grey outline
//
// A node whose key is absent from the set (a duplicate that lost the
// first-visit race, or any node when the set is nil) keeps the plain style.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package render
