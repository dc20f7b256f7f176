package deps

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Coordinate identifies an artifact by group, name and version (GAV).
type Coordinate struct {
	Group   string `json:"group"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// String returns the GAV form "group:name:version".
func (c Coordinate) String() string {
	return c.Group + ":" + c.Name + ":" + c.Version
}

// Module returns "group:name", the coordinate without its version.
func (c Coordinate) Module() string {
	return c.Group + ":" + c.Name
}

// ParseCoordinate parses "group:name:version". The version may be omitted.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q (expected group:name:version)", s)
	}
	c := Coordinate{Group: parts[0], Name: parts[1]}
	if len(parts) == 3 {
		c.Version = parts[2]
	}
	return c, nil
}

// KeyFunc extracts the dedup key used while flattening.
type KeyFunc func(Coordinate) string

// NameKey keys artifacts by bare name. This is the default.
func NameKey(c Coordinate) string { return c.Name }

// CoordinateKey keys artifacts by full group:name:version.
func CoordinateKey(c Coordinate) string { return c.String() }

// Node is a resolved dependency with its own resolved dependencies.
type Node struct {
	Coordinate
	Children []*Node `json:"children,omitempty"`
}

// Module is one build unit of a (possibly multi-module) project.
type Module struct {
	Name  string  // Unit name; compared against dependency groups while flattening
	Roots []*Node // First-level dependencies of the unit
}

// Graph is the resolved dependency graph of a build.
type Graph struct {
	Project Coordinate // The scanned project itself
	Modules []Module
}

// GraphProvider yields the resolved dependency graph of a build.
type GraphProvider interface {
	Graph(ctx context.Context) (*Graph, error)
}

// SelectModules picks the build units to scan. A project without
// sub-projects, or one scanned with scanRoot, contributes only its root unit;
// otherwise every sub-project not named in exclude is scanned and the root
// is skipped.
func SelectModules(root Module, subs []Module, scanRoot bool, exclude []string) []Module {
	if scanRoot || len(subs) == 0 {
		return []Module{root}
	}
	out := make([]Module, 0, len(subs))
	for _, m := range subs {
		if !slices.Contains(exclude, m.Name) {
			out = append(out, m)
		}
	}
	return out
}
