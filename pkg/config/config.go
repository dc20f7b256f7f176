// Package config holds the settings of one audit run.
//
// A [Config] is assembled once, before scanning, from [Defaults], an optional
// TOML or YAML file ([Load]), environment variables ([ApplyEnv]) and
// command-line flags, then checked with [Config.Validate]. Components receive
// it by value and never modify it.
//
// Example otsaudit.toml:
//
//	exclude_groups = ["com.example.internal"]
//	allowed_old_minor_version = 3
//	disallowed_licenses = ["GNU General Public License v3.0"]
//
//	[license_files]
//	permissive = "licenses/permissive.txt"
//
//	[overrides.license]
//	"org.example:legacy:1.0" = "Apache License, Version 2.0"
//
//	[reports]
//	dir = "build/reports/otsswinfo"
//	separator = ";"
package config

import (
	"time"

	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/integrations/maven"
)

// Dedup key names.
const (
	DedupByName       = "name"
	DedupByCoordinate = "coordinate"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Report defaults.
const (
	DefaultReportsDir = "build/reports/otsswinfo"
	DefaultSeparator  = ","
)

// Config is the full configuration of an audit run.
type Config struct {
	// Scan scope
	ExcludeGroups   []string `toml:"exclude_groups" yaml:"exclude_groups"`
	ExcludeModules  []string `toml:"exclude_modules" yaml:"exclude_modules"`
	ExcludeOwnGroup bool     `toml:"exclude_own_group" yaml:"exclude_own_group"`
	ScanRootProject bool     `toml:"scan_root_project" yaml:"scan_root_project"`
	DedupBy         string   `toml:"dedup_by" yaml:"dedup_by"`

	// Licenses
	AllowedLicenses    []string     `toml:"allowed_licenses" yaml:"allowed_licenses"`
	DisallowedLicenses []string     `toml:"disallowed_licenses" yaml:"disallowed_licenses"`
	LicenseFiles       LicenseFiles `toml:"license_files" yaml:"license_files"`
	IgnoreFailures     bool         `toml:"ignore_failures" yaml:"ignore_failures"`

	// Metadata overrides keyed by group:name:version
	Overrides Overrides `toml:"overrides" yaml:"overrides"`

	// Freshness
	AllowedOldMajorVersion int    `toml:"allowed_old_major_version" yaml:"allowed_old_major_version"`
	AllowedOldMinorVersion int    `toml:"allowed_old_minor_version" yaml:"allowed_old_minor_version"`
	StableVersionPattern   string `toml:"stable_version_pattern" yaml:"stable_version_pattern"`
	Workers                int    `toml:"workers" yaml:"workers"`

	// Output and backends
	Reports    Reports `toml:"reports" yaml:"reports"`
	Repository string  `toml:"repository" yaml:"repository"`
	Cache      Cache   `toml:"cache" yaml:"cache"`
	Store      Store   `toml:"store" yaml:"store"`
}

// LicenseFiles are the license corpus files, one per category.
// Empty paths use the built-in corpus for that category.
type LicenseFiles struct {
	GNU            string `toml:"gnu" yaml:"gnu"`
	Permissive     string `toml:"permissive" yaml:"permissive"`
	StrongCopyleft string `toml:"strong_copyleft" yaml:"strong_copyleft"`
	WeakCopyleft   string `toml:"weak_copyleft" yaml:"weak_copyleft"`
}

// Paths returns the four paths in category order.
func (f LicenseFiles) Paths() []string {
	return []string{f.GNU, f.Permissive, f.StrongCopyleft, f.WeakCopyleft}
}

// Overrides supply metadata missing from POMs.
type Overrides struct {
	License     map[string]string `toml:"license" yaml:"license"`
	URL         map[string]string `toml:"url" yaml:"url"`
	Description map[string]string `toml:"description" yaml:"description"`
}

// Reports configures report output.
type Reports struct {
	Dir       string   `toml:"dir" yaml:"dir"`
	Separator string   `toml:"separator" yaml:"separator"`
	ExtraInfo []string `toml:"extra_info" yaml:"extra_info"` // Lines written above the header
}

// Cache configures the repository response cache.
type Cache struct {
	Backend  string        `toml:"backend" yaml:"backend"`
	Dir      string        `toml:"dir" yaml:"dir"`
	TTL      time.Duration `toml:"ttl" yaml:"ttl"`
	RedisURL string        `toml:"redis_url" yaml:"redis_url"`
}

// Store configures the snapshot store.
type Store struct {
	MongoURI   string `toml:"mongo_uri" yaml:"mongo_uri"`
	Database   string `toml:"database" yaml:"database"`
	Collection string `toml:"collection" yaml:"collection"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		ExcludeOwnGroup:        true,
		DedupBy:                DedupByName,
		AllowedOldMajorVersion: 0,
		AllowedOldMinorVersion: 2,
		Workers:                8,
		Reports: Reports{
			Dir:       DefaultReportsDir,
			Separator: DefaultSeparator,
		},
		Repository: maven.DefaultRepository,
		Cache: Cache{
			Backend: CacheFile,
			TTL:     24 * time.Hour,
		},
		Store: Store{
			Database:   "otsaudit",
			Collection: "snapshots",
		},
	}
}

// KeyFunc returns the flattening dedup key.
func (c Config) KeyFunc() deps.KeyFunc {
	if c.DedupBy == DedupByCoordinate {
		return deps.CoordinateKey
	}
	return deps.NameKey
}

// Exclusions returns the group exclusions for a project whose own group is
// ownGroup.
func (c Config) Exclusions(ownGroup string) deps.Exclusions {
	e := deps.Exclusions{Groups: c.ExcludeGroups}
	if c.ExcludeOwnGroup {
		e.OwnGroup = ownGroup
	}
	return e
}

// MetadataOverrides returns the overrides in resolver form.
func (c Config) MetadataOverrides() deps.Overrides {
	return deps.Overrides{
		License:     c.Overrides.License,
		URL:         c.Overrides.URL,
		Description: c.Overrides.Description,
	}
}
