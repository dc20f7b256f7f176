package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/cache"
	"github.com/matzehuels/otsaudit/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached repository responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheNone {
				printInfo("Cache is disabled")
				return nil
			}
			ch, err := openCache(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", cfg.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", cfg.Cache.Backend)
			printDetail("Location: %s", cacheLocation(cfg, ch))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(cfg, nil))
			return nil
		},
	}
}

// cacheLocation describes where cfg's cache lives. ch, when given, is the
// opened backend.
func cacheLocation(cfg config.Config, ch cache.Cache) string {
	if fc, ok := ch.(*cache.FileCache); ok {
		return fc.Dir()
	}
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return cfg.Cache.RedisURL
	case config.CacheNone:
		return "(disabled)"
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return "(unknown)"
	}
	return dir
}
