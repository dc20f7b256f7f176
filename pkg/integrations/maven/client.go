package maven

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/otsaudit/pkg/cache"
	"github.com/matzehuels/otsaudit/pkg/integrations"
	"github.com/matzehuels/otsaudit/pkg/version"
)

// DefaultRepository is Maven Central.
const DefaultRepository = "https://repo1.maven.org/maven2"

// Options configures a [Client].
type Options struct {
	Repository    string                     // Repository base URL; empty means DefaultRepository
	TTL           time.Duration              // Cache entry lifetime
	Stability     version.StabilityPredicate // Filter for LatestVersion; nil means version.Default
	StabilityName string                     // Identifies Stability in cache keys
	Refresh       bool                       // Bypass cached entries
}

// Client reads POMs and version listings from a Maven repository layout.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL   string
	keyer     cache.Keyer
	stability version.StabilityPredicate
	stabName  string
	refresh   bool
}

// NewClient creates a client over the repository in opts, caching responses
// in c. A nil cache disables caching.
func NewClient(c cache.Cache, opts Options) (*Client, error) {
	base := strings.TrimRight(opts.Repository, "/")
	if base == "" {
		base = DefaultRepository
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid maven repository %q", opts.Repository)
	}
	stab := opts.Stability
	name := opts.StabilityName
	if stab == nil {
		stab = version.Default
		name = "default"
	}
	return &Client{
		Client:    integrations.NewClient(c, "maven:", opts.TTL, nil),
		baseURL:   base,
		keyer:     cache.NewScopedKeyer(nil, u.Host+u.Path+":"),
		stability: stab,
		stabName:  name,
		refresh:   opts.Refresh,
	}, nil
}

// Repository returns the repository base URL.
func (c *Client) Repository() string { return c.baseURL }

// FetchPOM retrieves and parses the POM of group:name:version.
//
// Returns [integrations.ErrNotFound] when the repository has no such POM.
func (c *Client) FetchPOM(ctx context.Context, group, name, ver string) (*POM, error) {
	if group == "" || name == "" || ver == "" {
		return nil, fmt.Errorf("invalid maven coordinate %s:%s:%s", group, name, ver)
	}
	var pom POM
	err := c.Cached(ctx, c.keyer.POMKey(group, name, ver), c.refresh, &pom, func() error {
		text, err := c.GetText(ctx, c.pomURL(group, name, ver))
		if err != nil {
			return err
		}
		p, err := ParsePOM([]byte(text))
		if err != nil {
			return err
		}
		pom = *p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pom %s:%s:%s: %w", group, name, ver, err)
	}
	return &pom, nil
}

// Versions returns the versions listed in group:name's maven-metadata.xml,
// oldest first as the repository publishes them.
func (c *Client) Versions(ctx context.Context, group, name string) ([]string, error) {
	var versions []string
	key := c.keyer.HTTPKey("metadata:", group+":"+name)
	err := c.Cached(ctx, key, c.refresh, &versions, func() error {
		var md metadata
		if err := c.GetXML(ctx, c.metadataURL(group, name), &md); err != nil {
			return err
		}
		versions = versions[:0]
		for _, v := range md.Versioning.Versions {
			if v = strings.TrimSpace(v); v != "" {
				versions = append(versions, v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("versions %s:%s: %w", group, name, err)
	}
	return versions, nil
}

// LatestVersion returns the newest version of group:name accepted by the
// client's stability predicate.
//
// Returns [integrations.ErrNotFound] when the artifact is unknown or no
// version is stable.
func (c *Client) LatestVersion(ctx context.Context, group, name string) (string, error) {
	var latest string
	key := c.keyer.LatestKey(group, name, cache.LatestKeyOpts{Stability: c.stabName})
	err := c.Cached(ctx, key, c.refresh, &latest, func() error {
		versions, err := c.Versions(ctx, group, name)
		if err != nil {
			return err
		}
		latest = newestStable(versions, c.stability)
		if latest == "" {
			return fmt.Errorf("%w: no stable version of %s:%s", integrations.ErrNotFound, group, name)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return latest, nil
}

// Latest is LatestVersion under the name used by freshness classification.
func (c *Client) Latest(ctx context.Context, group, name string) (string, error) {
	return c.LatestVersion(ctx, group, name)
}

// newestStable returns the highest version accepted by stable, ordered by
// [version.Compare]. Repositories list versions in publication order, which
// differs from version order when an older line gets a maintenance release.
// On a tie the later-published entry wins.
func newestStable(versions []string, stable version.StabilityPredicate) string {
	best := ""
	for _, v := range versions {
		if !stable.IsStable(v) {
			continue
		}
		if best == "" || version.Compare(v, best) >= 0 {
			best = v
		}
	}
	return best
}

func (c *Client) pomURL(group, name, ver string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom", c.baseURL, groupPath(group), name, ver, name, ver)
}

func (c *Client) metadataURL(group, name string) string {
	return fmt.Sprintf("%s/%s/%s/maven-metadata.xml", c.baseURL, groupPath(group), name)
}

func groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}

type metadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}
