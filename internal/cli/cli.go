package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/buildinfo"
	"github.com/matzehuels/otsaudit/pkg/cache"
	"github.com/matzehuels/otsaudit/pkg/config"
	"github.com/matzehuels/otsaudit/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "otsaudit"

	// defaultEnvFile is loaded when present and --env-file is not given.
	defaultEnvFile = ".env"
)

// defaultConfigFiles are tried in order when --config is not given.
var defaultConfigFiles = []string{"otsaudit.toml", "otsaudit.yaml", "otsaudit.yml"}

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	envFile    string
	noCache    bool
	refresh    bool
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also registers hooks
// that log every scan, cache and HTTP event.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.verbose = level <= log.DebugLevel
	if c.verbose {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "otsaudit audits the third-party dependencies of a build",
		Long:         `otsaudit flattens a project's resolved dependency graph and produces version, up-to-date and license reports for its off-the-shelf software.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml); default ./otsaudit.toml if present")
	pf.StringVar(&c.envFile, "env-file", "", "load environment variables from this file (default ./.env if present)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the repository response cache")
	pf.BoolVar(&c.refresh, "refresh", false, "ignore cached repository responses")

	root.AddCommand(c.versionReportCommand())
	root.AddCommand(c.upToDateCommand())
	root.AddCommand(c.licenseCheckCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig builds the run configuration: defaults, then the config file,
// then the environment, then flags that were set explicitly.
func (c *CLI) loadConfig(cmd *cobra.Command, sf *scanFlags) (config.Config, error) {
	cfg := config.Defaults()

	path := c.configPath
	if path == "" {
		for _, name := range defaultConfigFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
		loggerFromContext(cmd.Context()).Debug("loaded config", "path", path)
	}

	envFile, required := c.envFile, c.envFile != ""
	if !required {
		envFile = defaultEnvFile
	}
	if err := config.LoadEnvFile(envFile, required); err != nil {
		return cfg, err
	}
	config.ApplyEnv(&cfg, os.LookupEnv)

	if sf != nil {
		sf.apply(cmd, &cfg)
	}
	if c.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Backends
// =============================================================================

// openCache opens the configured cache backend.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// openStore opens MongoDB when a URI is configured and the local snapshot
// directory otherwise.
func openStore(ctx context.Context, cfg config.Config) (storage.SnapshotStore, error) {
	if cfg.Store.MongoURI != "" {
		return storage.NewMongoSnapshotStore(ctx, cfg.Store.MongoURI, cfg.Store.Database, cfg.Store.Collection)
	}
	return storage.NewFileSnapshotStore("")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/otsaudit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	d, err := cache.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return d, nil
}
