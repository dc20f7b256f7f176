package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/classify"
	"github.com/matzehuels/otsaudit/pkg/report"
	"github.com/matzehuels/otsaudit/pkg/storage"
)

type versionReportFlags struct {
	scanFlags
	previous          string
	previousFromStore bool
	store             bool
}

// versionReportCommand creates the "version-report" command.
func (c *CLI) versionReportCommand() *cobra.Command {
	var f versionReportFlags
	cmd := &cobra.Command{
		Use:   "version-report",
		Short: "Report every third-party dependency with its license and project URL",
		Long: `Scan the project and write otsSwVersionReport.csv.

With --previous (a snapshot file from an earlier release) or
--previous-from-store, a newToRelease column flags dependencies that were not
part of that release. Every run also writes a snapshot file next to the
report; --store additionally saves it to the snapshot store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVersionReport(cmd, &f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.previous, "previous", "", "snapshot file of the previous release")
	cmd.Flags().BoolVar(&f.previousFromStore, "previous-from-store", false, "use the latest stored snapshot as the previous release")
	cmd.Flags().BoolVar(&f.store, "store", false, "save this release's snapshot to the snapshot store")
	cmd.MarkFlagsMutuallyExclusive("previous", "previous-from-store")
	return cmd
}

func (c *CLI) runVersionReport(cmd *cobra.Command, f *versionReportFlags) error {
	ctx := cmd.Context()
	s, err := c.newSession(cmd, &f.scanFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	var previous *classify.Snapshot
	if f.previous != "" {
		if previous, err = report.ReadSnapshot(f.previous); err != nil {
			return err
		}
	}

	scan, err := c.scan(ctx, s)
	if err != nil {
		return err
	}

	var store storage.SnapshotStore
	if f.previousFromStore || f.store {
		if store, err = openStore(ctx, s.cfg); err != nil {
			return fmt.Errorf("open snapshot store: %w", err)
		}
		defer store.Close(ctx)
	}
	if f.previousFromStore {
		stored, err := store.Latest(ctx, scan.Project())
		switch {
		case errors.Is(err, storage.ErrNotFound):
			printWarning("No stored snapshot for %s; newToRelease not computed", scan.Project())
		case err != nil:
			return err
		default:
			previous = stored.Delta()
			printDetail("Previous release: snapshot %s (%s)", stored.ID, stored.CreatedAt.Format("2006-01-02"))
		}
	}

	newCount := s.auditor.MarkNew(ctx, scan, previous)
	artifacts := scan.Artifacts.All()

	w := s.reports()
	path, err := w.VersionReport(artifacts, previous != nil)
	if err != nil {
		return err
	}
	snapPath, err := w.Snapshot(artifacts)
	if err != nil {
		return err
	}

	printSuccess("Version report for %s", StyleHighlight.Render(scan.Project()))
	printKeyValue("Artifacts", fmt.Sprintf("%d", len(artifacts)))
	if previous != nil {
		printKeyValue("New", fmt.Sprintf("%d", newCount))
	}
	printFile(path)
	printFile(snapPath)

	if f.store {
		snap := storage.NewSnapshot(scan.ID, scan.Project(), artifacts)
		if err := store.Save(ctx, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		printDetail("Stored snapshot %s", snap.ID)
	}
	return nil
}
