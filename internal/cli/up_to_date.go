package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/audit"
	"github.com/matzehuels/otsaudit/pkg/deps"
)

type upToDateFlags struct {
	scanFlags
	allowedMajor int
	allowedMinor int
}

// upToDateCommand creates the "up-to-date" command.
func (c *CLI) upToDateCommand() *cobra.Command {
	var f upToDateFlags
	cmd := &cobra.Command{
		Use:   "up-to-date",
		Short: "Compare every dependency against its latest stable release",
		Long: `Scan the project, look up the newest stable version of every dependency
and write otsSwVersionUpToDateReport.csv.

A dependency is too old when its major version lags by more than
--allowed-major, or, on the same major, its minor version lags by more than
--allowed-minor. Dependencies whose latest version cannot be found are listed
separately at the end of the report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpToDate(cmd, &f)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&f.allowedMajor, "allowed-major", 0, "major versions a dependency may lag behind")
	cmd.Flags().IntVar(&f.allowedMinor, "allowed-minor", 2, "minor versions a dependency may lag behind")
	return cmd
}

func (c *CLI) runUpToDate(cmd *cobra.Command, f *upToDateFlags) error {
	ctx := cmd.Context()
	s, err := c.newSession(cmd, &f.scanFlags)
	if err != nil {
		return err
	}
	defer s.Close()
	if cmd.Flags().Changed("allowed-major") {
		s.auditor.Config.AllowedOldMajorVersion = f.allowedMajor
	}
	if cmd.Flags().Changed("allowed-minor") {
		s.auditor.Config.AllowedOldMinorVersion = f.allowedMinor
	}
	if err := s.auditor.Config.Validate(); err != nil {
		return err
	}

	var res *audit.UpToDateResult
	err = c.runTask(ctx, "Checking dependency versions", func(ctx context.Context) error {
		var err error
		res, err = s.auditor.UpToDate(ctx)
		return err
	})
	if err != nil {
		return err
	}

	path, err := s.reports().UpToDateReport(res.Artifacts.All(), res.Undetermined)
	if err != nil {
		return err
	}

	printSuccess("Up-to-date report for %s", StyleHighlight.Render(res.Project()))
	printKeyValue("Total", fmt.Sprintf("%d", res.Total))
	printKeyValue("Outdated", fmt.Sprintf("%d", res.Outdated))
	printKeyValue("Too old", fmt.Sprintf("%d", res.TooOld))
	printKeyValue("Unknown", fmt.Sprintf("%d", len(res.Undetermined)))
	if old := tooOld(res.Artifacts); len(old) > 0 {
		printArtifactTable([]string{"Artifact", "Version", "Latest"}, old, func(a *deps.Artifact) []string {
			return []string{a.Module(), a.Version, a.LatestVersion}
		})
	}
	printFile(path)
	return nil
}

func tooOld(set *deps.ArtifactSet) []*deps.Artifact {
	var out []*deps.Artifact
	for _, a := range set.Sorted() {
		if a.TooOld != nil && *a.TooOld {
			out = append(out, a)
		}
	}
	return out
}
