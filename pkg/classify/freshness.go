package classify

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/version"
)

// DefaultWorkers is the number of concurrent latest-version lookups.
const DefaultWorkers = 8

// ErrNoVersion is returned by a [LatestVersionLookup] when no version
// satisfies its stability predicate.
var ErrNoVersion = errors.New("no stable version found")

// LatestVersionLookup finds the newest stable version of an artifact.
type LatestVersionLookup interface {
	Latest(ctx context.Context, group, name string) (string, error)
}

// LatestFunc adapts a function to [LatestVersionLookup].
type LatestFunc func(ctx context.Context, group, name string) (string, error)

// Latest implements [LatestVersionLookup].
func (f LatestFunc) Latest(ctx context.Context, group, name string) (string, error) {
	return f(ctx, group, name)
}

// FreshnessClassifier compares each artifact against its latest stable
// version.
type FreshnessClassifier struct {
	Lookup       LatestVersionLookup
	AllowedMajor int
	AllowedMinor int
	Workers      int // <= 0 means DefaultWorkers
	Logger       *log.Logger
}

// FreshnessResult summarizes a freshness pass.
type FreshnessResult struct {
	Undetermined []*deps.Artifact // Artifacts whose latest version could not be found
	Outdated     int              // Determined artifacts not on their latest version
	TooOld       int              // Determined artifacts beyond the tolerance
	Total        int              // All artifacts, determined or not
}

// Classify sets LatestVersion and TooOld on every artifact whose latest
// version is found. Artifacts whose lookup fails are removed from set and
// returned in the result's Undetermined list, sorted by name. A lookup failure
// never fails the pass; only context cancellation does.
func (c *FreshnessClassifier) Classify(ctx context.Context, set *deps.ArtifactSet) (*FreshnessResult, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	artifacts := set.All()
	res := &FreshnessResult{Total: len(artifacts)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, a := range artifacts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			latest, err := c.Lookup.Latest(gctx, a.Group, a.Name)
			if err == nil && latest == "" {
				err = ErrNoVersion
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("latest version not determined", "artifact", a.Coordinate.String(), "err", err)
				res.Undetermined = append(res.Undetermined, a)
				return nil
			}
			tooOld := version.IsTooOld(c.AllowedMajor, c.AllowedMinor, a.Version, latest)
			a.LatestVersion = latest
			a.TooOld = &tooOld
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, a := range res.Undetermined {
		set.Remove(a.Coordinate)
	}
	deps.SortByName(res.Undetermined)

	for _, a := range set.All() {
		if !a.IsLatest() {
			res.Outdated++
		}
		if a.TooOld != nil && *a.TooOld {
			res.TooOld++
		}
	}
	return res, nil
}
