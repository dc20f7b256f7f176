package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/storage"
)

// snapshotCommand creates the snapshot store command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect stored release snapshots",
	}
	cmd.AddCommand(c.snapshotLatestCommand())
	return cmd
}

// snapshotLatestCommand creates the "snapshot latest" subcommand.
func (c *CLI) snapshotLatestCommand() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the latest stored snapshot of a project",
		Long: `Print the latest stored snapshot of a project in the tab-delimited snapshot
format. Redirect it to a file to use it as --previous for version-report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer store.Close(ctx)

			snap, err := store.Latest(ctx, project)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no snapshot stored for %q", project)
			}
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("snapshot", "id", snap.ID, "created", snap.CreatedAt, "entries", len(snap.Entries))
			fmt.Fprint(cmd.OutOrStdout(), snap.Delta().Text())
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
