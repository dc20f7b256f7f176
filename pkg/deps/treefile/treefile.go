// Package treefile reads a pre-resolved dependency tree exported by a build
// tool.
//
// The format is JSON:
//
//	{
//	  "project": {"group": "com.example", "name": "my-app", "version": "1.0"},
//	  "dependencies": [
//	    {"group": "org.slf4j", "name": "slf4j-api", "version": "2.0.9", "children": []}
//	  ],
//	  "modules": [
//	    {"name": "core", "dependencies": [...]}
//	  ]
//	}
//
// Top-level "dependencies" belong to the root project. Each entry in
// "modules" is a sub-project with its own dependency forest.
package treefile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/otsaudit/pkg/deps"
)

// File is the decoded tree file.
type File struct {
	Project      deps.Coordinate `json:"project"`
	Dependencies []*deps.Node    `json:"dependencies"`
	Modules      []FileModule    `json:"modules,omitempty"`
}

// FileModule is one sub-project.
type FileModule struct {
	Name         string       `json:"name"`
	Dependencies []*deps.Node `json:"dependencies"`
}

// Provider implements [deps.GraphProvider] over a tree file.
type Provider struct {
	Path string

	// ScanRootProject scans the root project instead of its modules. When
	// the file has no modules the root is always scanned.
	ScanRootProject bool

	// ExcludeModules names sub-projects to leave out.
	ExcludeModules []string
}

// Graph implements [deps.GraphProvider].
func (p *Provider) Graph(ctx context.Context) (*deps.Graph, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return p.graph(tf), nil
}

func (p *Provider) graph(tf *File) *deps.Graph {
	subs := make([]deps.Module, 0, len(tf.Modules))
	for _, m := range tf.Modules {
		subs = append(subs, deps.Module{Name: m.Name, Roots: m.Dependencies})
	}
	root := deps.Module{Name: tf.Project.Name, Roots: tf.Dependencies}
	return &deps.Graph{
		Project: tf.Project,
		Modules: deps.SelectModules(root, subs, p.ScanRootProject, p.ExcludeModules),
	}
}

// Decode reads a tree file and checks that every node names an artifact.
func Decode(r io.Reader) (*File, error) {
	var tf File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tf); err != nil {
		return nil, err
	}
	if tf.Project.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if err := validate(tf.Dependencies); err != nil {
		return nil, err
	}
	for _, m := range tf.Modules {
		if m.Name == "" {
			return nil, fmt.Errorf("module without a name")
		}
		if err := validate(m.Dependencies); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Name, err)
		}
	}
	return &tf, nil
}

func validate(nodes []*deps.Node) error {
	stack := slices.Clone(nodes)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			return fmt.Errorf("null dependency entry")
		}
		if n.Group == "" || n.Name == "" {
			return fmt.Errorf("dependency %q is missing group or name", n.String())
		}
		stack = append(stack, n.Children...)
	}
	return nil
}
