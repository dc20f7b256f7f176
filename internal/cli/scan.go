package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/otsaudit/pkg/audit"
	"github.com/matzehuels/otsaudit/pkg/cache"
	"github.com/matzehuels/otsaudit/pkg/config"
	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/deps/java"
	"github.com/matzehuels/otsaudit/pkg/deps/treefile"
	"github.com/matzehuels/otsaudit/pkg/integrations/maven"
	"github.com/matzehuels/otsaudit/pkg/report"
)

// scanFlags are shared by every command that scans a project.
type scanFlags struct {
	pom  string
	tree string

	excludeGroups   []string
	excludeOwnGroup bool
	excludeModules  []string
	scanRoot        bool
	dedupBy         string
	workers         int

	reportsDir string
	separator  string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.pom, "pom", "pom.xml", "project pom.xml to resolve")
	fl.StringVar(&f.tree, "tree", "", "pre-resolved dependency tree (JSON) to scan instead of a pom.xml")
	fl.StringSliceVar(&f.excludeGroups, "exclude-group", nil, "dependency group to leave out (repeatable)")
	fl.BoolVar(&f.excludeOwnGroup, "exclude-own-group", true, "leave out dependencies in the project's own group")
	fl.StringSliceVar(&f.excludeModules, "exclude-module", nil, "sub-project to leave out (repeatable)")
	fl.BoolVar(&f.scanRoot, "scan-root-project", false, "scan the root project instead of its modules")
	fl.StringVar(&f.dedupBy, "dedup-by", config.DedupByName, "artifact identity: name or coordinate")
	fl.IntVar(&f.workers, "workers", 8, "concurrent repository lookups")
	fl.StringVar(&f.reportsDir, "reports-dir", config.DefaultReportsDir, "report output directory")
	fl.StringVar(&f.separator, "separator", config.DefaultSeparator, "report field separator")
	cmd.MarkFlagsMutuallyExclusive("pom", "tree")
}

// apply copies explicitly set flags over cfg.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("exclude-group") {
		cfg.ExcludeGroups = append(cfg.ExcludeGroups, f.excludeGroups...)
	}
	if fl.Changed("exclude-own-group") {
		cfg.ExcludeOwnGroup = f.excludeOwnGroup
	}
	if fl.Changed("exclude-module") {
		cfg.ExcludeModules = append(cfg.ExcludeModules, f.excludeModules...)
	}
	if fl.Changed("scan-root-project") {
		cfg.ScanRootProject = f.scanRoot
	}
	if fl.Changed("dedup-by") {
		cfg.DedupBy = f.dedupBy
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("reports-dir") {
		cfg.Reports.Dir = f.reportsDir
	}
	if fl.Changed("separator") {
		cfg.Reports.Separator = f.separator
	}
}

// auditSession bundles an auditor with the backends it owns.
type auditSession struct {
	cfg     config.Config
	auditor *audit.Auditor
	cache   cache.Cache
}

func (s *auditSession) Close() error { return s.cache.Close() }

// reports returns a report writer for the session's configuration.
func (s *auditSession) reports() report.Writer {
	return report.NewWriter(s.cfg.Reports.Dir, s.cfg.Reports.Separator, s.cfg.Reports.ExtraInfo)
}

// newSession loads the configuration and wires the graph provider, the
// Maven client and the cache into an auditor.
func (c *CLI) newSession(cmd *cobra.Command, sf *scanFlags) (*auditSession, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd, sf)
	if err != nil {
		return nil, err
	}

	ch, err := openCache(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	stability, stabilityName, err := cfg.Stability()
	if err != nil {
		ch.Close()
		return nil, err
	}
	client, err := maven.NewClient(ch, maven.Options{
		Repository:    cfg.Repository,
		TTL:           cfg.Cache.TTL,
		Stability:     stability,
		StabilityName: stabilityName,
		Refresh:       c.refresh,
	})
	if err != nil {
		ch.Close()
		return nil, err
	}

	provider := graphProvider(cfg, sf, client, logger)
	a := audit.New(cfg, provider, java.MetadataSource{Fetcher: client}, client, logger)
	return &auditSession{cfg: cfg, auditor: a, cache: ch}, nil
}

func graphProvider(cfg config.Config, sf *scanFlags, client *maven.Client, logger *log.Logger) deps.GraphProvider {
	if sf.tree != "" {
		return &treefile.Provider{
			Path:            sf.tree,
			ScanRootProject: cfg.ScanRootProject,
			ExcludeModules:  cfg.ExcludeModules,
		}
	}
	p := java.NewPOMGraphProvider(sf.pom, client, logger)
	p.ScanRootProject = cfg.ScanRootProject
	p.ExcludeModules = cfg.ExcludeModules
	return p
}

// scan runs a scan behind the progress display.
func (c *CLI) scan(ctx context.Context, s *auditSession) (*audit.Scan, error) {
	var scan *audit.Scan
	err := c.runTask(ctx, "Resolving dependencies", func(ctx context.Context) error {
		var err error
		scan, err = s.auditor.Scan(ctx)
		return err
	})
	return scan, err
}
