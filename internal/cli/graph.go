package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/audit"
	"github.com/matzehuels/otsaudit/pkg/render"
)

type graphFlags struct {
	scanFlags
	output    string
	detailed  bool
	freshness bool
}

// graphCommand creates the "graph" command.
func (c *CLI) graphCommand() *cobra.Command {
	var f graphFlags
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the resolved dependency graph",
		Long: `Scan the project and draw its dependency graph as SVG or Graphviz DOT,
chosen by the extension of --output.

Nodes with a license that is not allowed are filled red. With --freshness,
the latest versions are looked up too and too-old nodes are filled amber.
Excluded nodes are dashed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, &f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "dependencies.svg", "output file (.svg or .dot)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show group and license in node labels")
	cmd.Flags().BoolVar(&f.freshness, "freshness", false, "look up latest versions and mark too-old dependencies")
	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, f *graphFlags) error {
	ctx := cmd.Context()
	ext := strings.ToLower(filepath.Ext(f.output))
	if ext != ".svg" && ext != ".dot" {
		return fmt.Errorf("unsupported output format %q (want .svg or .dot)", ext)
	}

	s, err := c.newSession(cmd, &f.scanFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	var scan *audit.Scan
	err = c.runTask(ctx, "Resolving and classifying dependencies", func(ctx context.Context) error {
		var err error
		if scan, err = s.auditor.Scan(ctx); err != nil {
			return err
		}
		if _, err := s.auditor.ClassifyLicenses(ctx, scan); err != nil {
			return err
		}
		if f.freshness {
			_, err = s.auditor.ClassifyFreshness(ctx, scan)
		}
		return err
	})
	if err != nil {
		return err
	}

	dot := render.ToDOT(scan.Graph, scan.Artifacts, scan.Exclusions, render.Options{Detailed: f.detailed})
	out := []byte(dot)
	if ext == ".svg" {
		if out, err = render.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}
	if err := os.WriteFile(f.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}

	printSuccess("Dependency graph for %s", StyleHighlight.Render(scan.Project()))
	printFile(f.output)
	return nil
}
