package deps

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"
)

// Exclusions decide which graph nodes are left out of a scan.
type Exclusions struct {
	Groups   []string // Excluded groups
	OwnGroup string   // The project's own group; excluded too when non-empty
	RootName string   // Name of the scanned unit; nodes whose group equals it are skipped
}

// Excludes reports whether c is filtered out by group.
func (e Exclusions) Excludes(c Coordinate) bool {
	if e.RootName != "" && c.Group == e.RootName {
		return true
	}
	if e.OwnGroup != "" && c.Group == e.OwnGroup {
		return true
	}
	return slices.Contains(e.Groups, c.Group)
}

// FlattenOptions configures [Flatten].
type FlattenOptions struct {
	Resolver Resolver    // Builds artifact records; nil records coordinates only
	Key      KeyFunc     // Dedup key; nil means NameKey
	Logger   *log.Logger // nil means log.Default()
}

// Flatten visits the forest rooted at roots depth-first in post-order and
// returns one artifact per key that passes excl.
func Flatten(ctx context.Context, roots []*Node, excl Exclusions, opts FlattenOptions) *ArtifactSet {
	set := NewArtifactSet(opts.Key)
	FlattenInto(ctx, set, roots, excl, opts)
	return set
}

type frame struct {
	node *Node
	next int // index of the next child to visit
}

// FlattenInto is [Flatten] adding to an existing set, so several modules can
// share one dedup state. opts.Key is ignored in favor of the set's key.
func FlattenInto(ctx context.Context, set *ArtifactSet, roots []*Node, excl Exclusions, opts FlattenOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	// Nodes whose whole subtree has been evaluated under excl. Visiting them
	// again cannot add anything.
	done := make(map[*Node]bool)

	for _, root := range roots {
		if root == nil || done[root] {
			continue
		}
		onPath := map[string]bool{root.String(): true}
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.node.Children) {
				child := top.node.Children[top.next]
				top.next++
				if child == nil || done[child] {
					continue
				}
				if id := child.String(); onPath[id] {
					logger.Debug("dependency cycle", "from", top.node.String(), "to", id)
					continue
				}
				onPath[child.String()] = true
				stack = append(stack, frame{node: child})
				continue
			}

			n := top.node
			stack = stack[:len(stack)-1]
			delete(onPath, n.String())
			done[n] = true

			if excl.Excludes(n.Coordinate) || set.Has(n.Coordinate) {
				continue
			}
			set.Add(resolve(ctx, opts.Resolver, n))
		}
	}
}

func resolve(ctx context.Context, r Resolver, n *Node) *Artifact {
	if r == nil {
		return &Artifact{Coordinate: n.Coordinate}
	}
	a := r.Resolve(ctx, n)
	a.Coordinate = n.Coordinate
	return a
}

// FlattenGraph flattens every module of g into one set. Each module is
// scanned with its own name as RootName.
func FlattenGraph(ctx context.Context, g *Graph, excl Exclusions, opts FlattenOptions) *ArtifactSet {
	set := NewArtifactSet(opts.Key)
	for _, m := range g.Modules {
		e := excl
		e.RootName = m.Name
		FlattenInto(ctx, set, m.Roots, e, opts)
	}
	return set
}
