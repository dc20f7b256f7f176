package config

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/matzehuels/otsaudit/pkg/classify"
	"github.com/matzehuels/otsaudit/pkg/errors"
	"github.com/matzehuels/otsaudit/pkg/version"
)

// MinRuntime is the oldest Go runtime otsaudit supports.
const MinRuntime = "go1.22"

// Validate reports the first configuration problem found. Any error is fatal:
// no scan may start with an invalid configuration.
func (c Config) Validate() error {
	if err := CheckRuntime(runtime.Version()); err != nil {
		return err
	}
	if c.AllowedOldMajorVersion < 0 {
		return invalid("allowed_old_major_version must be >= 0, got %d", c.AllowedOldMajorVersion)
	}
	if c.AllowedOldMinorVersion < 0 {
		return invalid("allowed_old_minor_version must be >= 0, got %d", c.AllowedOldMinorVersion)
	}
	if c.Workers < 0 {
		return invalid("workers must be >= 0, got %d", c.Workers)
	}
	switch c.DedupBy {
	case "", DedupByName, DedupByCoordinate:
	default:
		return invalid("dedup_by must be %q or %q, got %q", DedupByName, DedupByCoordinate, c.DedupBy)
	}
	if err := errors.ValidateSeparator(c.Reports.Separator); err != nil {
		return err
	}
	if c.StableVersionPattern != "" {
		if _, err := regexp.Compile(c.StableVersionPattern); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "stable_version_pattern")
		}
	}
	for _, p := range c.LicenseFiles.Paths() {
		if p == "" {
			continue
		}
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
		if _, err := os.Stat(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "license file %s", p)
		}
	}
	for name, m := range map[string]map[string]string{
		"license":     c.Overrides.License,
		"url":         c.Overrides.URL,
		"description": c.Overrides.Description,
	} {
		for key := range m {
			if err := errors.ValidateCoordinate(key); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "overrides.%s", name)
			}
		}
	}
	if err := errors.ValidateURL(c.Repository); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repository")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache backend redis needs redis_url or %s", EnvRedisURL)
		}
	default:
		return invalid("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return invalid("cache ttl must be >= 0")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// CheckRuntime rejects Go runtimes older than [MinRuntime]. Development
// builds are accepted.
func CheckRuntime(goVersion string) error {
	if !strings.HasPrefix(goVersion, "go") {
		return nil
	}
	cur, err := version.Parse(strings.TrimPrefix(goVersion, "go"))
	if err != nil {
		return nil
	}
	min, _ := version.Parse(strings.TrimPrefix(MinRuntime, "go"))
	if cur.Major < min.Major || (cur.Major == min.Major && cur.Minor < min.Minor) {
		return errors.New(errors.ErrCodeUnsupportedRuntime, "runtime %s is older than %s", goVersion, MinRuntime)
	}
	return nil
}

// Corpora loads the license corpus files in category order. Unset
// categories fall back to the built-in corpus.
func (c Config) Corpora() ([]*classify.Corpus, error) {
	out := make([]*classify.Corpus, 0, len(classify.Categories))
	for i, p := range c.LicenseFiles.Paths() {
		if p == "" {
			corpus, err := classify.DefaultCorpus(classify.Categories[i])
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "license files")
			}
			out = append(out, corpus)
			continue
		}
		corpus, err := classify.LoadCorpus(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "license file %s", p)
		}
		out = append(out, corpus)
	}
	return out, nil
}

// Stability returns the stability predicate and a name identifying it.
func (c Config) Stability() (version.StabilityPredicate, string, error) {
	if c.StableVersionPattern == "" {
		return version.Default, "default", nil
	}
	p, err := version.NewPatternStability(c.StableVersionPattern)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "stable_version_pattern")
	}
	return p, fmt.Sprintf("pattern:%s", c.StableVersionPattern), nil
}
