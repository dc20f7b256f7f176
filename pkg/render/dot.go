package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/otsaudit/pkg/deps"
)

// Fill colors.
const (
	ColorDisallowed = "#f4b6b6"
	ColorTooOld     = "#ffd98a"
	ColorExcluded   = "lightgrey"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the group and license to node labels.
	Detailed bool
}

// ToDOT converts g to Graphviz DOT. Every distinct coordinate becomes one
// node; shared subtrees and cycles are drawn once.
func ToDOT(g *deps.Graph, set *deps.ArtifactSet, excl deps.Exclusions, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, set: set, opts: opts, seen: make(map[string]bool)}

	root := g.Project.String()
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=\"#dde7f5\"];\n", root, projectLabel(g.Project))
	for _, m := range g.Modules {
		from := root
		if len(g.Modules) > 1 || m.Name != g.Project.Name {
			from = "module:" + m.Name
			fmt.Fprintf(&buf, "  %q [label=%q, shape=component, fillcolor=\"#eef2f8\"];\n", from, m.Name)
			fmt.Fprintf(&buf, "  %q -> %q;\n", root, from)
		}
		for _, n := range m.Roots {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, n.String())
			w.walk(n, deps.Exclusions{RootName: m.Name, OwnGroup: excl.OwnGroup, Groups: excl.Groups})
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	set  *deps.ArtifactSet
	opts Options
	seen map[string]bool
}

func (w *dotWriter) walk(root *deps.Node, excl deps.Exclusions) {
	stack := []*deps.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := n.String()
		if w.seen[id] {
			continue
		}
		w.seen[id] = true
		fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(w.attrs(n, excl), ", "))
		for i := len(n.Children) - 1; i >= 0; i-- {
			c := n.Children[i]
			fmt.Fprintf(w.buf, "  %q -> %q;\n", id, c.String())
			stack = append(stack, c)
		}
	}
}

func (w *dotWriter) attrs(n *deps.Node, excl deps.Exclusions) []string {
	var a *deps.Artifact
	if w.set != nil {
		a, _ = w.set.Get(n.Coordinate)
	}
	attrs := []string{fmt.Sprintf("label=%q", label(n.Coordinate, a, w.opts.Detailed))}
	switch {
	case excl.Excludes(n.Coordinate):
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor="+ColorExcluded)
	case a == nil:
	case a.AllowedLicense != nil && !*a.AllowedLicense:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", ColorDisallowed))
	case a.TooOld != nil && *a.TooOld:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", ColorTooOld))
	}
	return attrs
}

func label(c deps.Coordinate, a *deps.Artifact, detailed bool) string {
	l := c.Name + "\n" + c.Version
	if !detailed {
		return l
	}
	l = c.Group + "\n" + l
	if a != nil && a.License != "" {
		l += "\n" + a.License
	}
	return l
}

func projectLabel(c deps.Coordinate) string {
	if c.Version == "" {
		return c.Name
	}
	return c.Name + "\n" + c.Version
}
