package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/audit"
	"github.com/matzehuels/otsaudit/pkg/deps"
)

type licenseCheckFlags struct {
	scanFlags
	ignoreFailures bool
}

// licenseCheckCommand creates the "license-check" command.
func (c *CLI) licenseCheckCommand() *cobra.Command {
	var f licenseCheckFlags
	cmd := &cobra.Command{
		Use:   "license-check",
		Short: "Fail when a dependency has a license that is not allowed",
		Long: `Scan the project, classify every dependency license against the license
corpus files and the allow and deny lists, and write otsSwLicenseReport.csv.

The command exits non-zero when any license is not allowed, unless
--ignore-failures is set. A dependency without a license is never allowed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLicenseCheck(cmd, &f)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.ignoreFailures, "ignore-failures", false, "report disallowed licenses without failing")
	return cmd
}

func (c *CLI) runLicenseCheck(cmd *cobra.Command, f *licenseCheckFlags) error {
	ctx := cmd.Context()
	s, err := c.newSession(cmd, &f.scanFlags)
	if err != nil {
		return err
	}
	defer s.Close()
	if cmd.Flags().Changed("ignore-failures") {
		s.auditor.Config.IgnoreFailures = f.ignoreFailures
	}

	var res *audit.LicenseResult
	var checkErr error
	err = c.runTask(ctx, "Checking licenses", func(ctx context.Context) error {
		res, checkErr = s.auditor.LicenseCheck(ctx)
		if res == nil {
			return checkErr
		}
		return nil
	})
	if err != nil {
		return err
	}

	path, err := s.reports().LicenseReport(res.Artifacts.All())
	if err != nil {
		return err
	}

	if len(res.Rejected) == 0 {
		printSuccess("All %d licenses allowed for %s", res.Artifacts.Len(), StyleHighlight.Render(res.Project()))
	} else {
		printWarning("%d of %d dependencies have a license that is not allowed", len(res.Rejected), res.Artifacts.Len())
		printArtifactTable([]string{"Artifact", "Version", "License"}, res.Rejected, func(a *deps.Artifact) []string {
			license := a.License
			if license == "" {
				license = "(none)"
			}
			return []string{a.Module(), a.Version, license}
		})
	}
	printFile(path)
	if checkErr != nil {
		return fmt.Errorf("license check: %w", checkErr)
	}
	return nil
}
