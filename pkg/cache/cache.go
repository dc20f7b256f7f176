// Package cache provides the byte-level caches behind repository lookups.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON envelopes under a local directory (the CLI default)
//   - [RedisCache]: a shared Redis instance, for CI fleets scanning many builds
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are built by a [Keyer] so that entries from different Maven
// repositories never collide.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and
	// unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// POMKey keys the parsed POM of one artifact version.
	POMKey(group, name, version string) string

	// LatestKey keys a latest-version lookup. The stability name is part of
	// the key since a different predicate may pick a different version.
	LatestKey(group, name string, opts LatestKeyOpts) string
}

// LatestKeyOpts are the inputs that change a latest-version answer.
type LatestKeyOpts struct {
	Stability string `json:"stability"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace><key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + key
}

// POMKey returns "pom:group:name:version".
func (DefaultKeyer) POMKey(group, name, version string) string {
	return "pom:" + group + ":" + name + ":" + version
}

// LatestKey hashes the options so new fields do not change the key layout.
func (DefaultKeyer) LatestKey(group, name string, opts LatestKeyOpts) string {
	return hashKey("latest:"+group+":"+name, opts)
}

// ScopedKeyer prefixes every key of an inner [Keyer], isolating entries
// fetched from different repositories that share one backend:
//
//	central := cache.NewScopedKeyer(nil, "repo1.maven.org:")
//	nexus := cache.NewScopedKeyer(nil, "nexus.internal:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// POMKey generates a prefixed POM key.
func (k *ScopedKeyer) POMKey(group, name, version string) string {
	return k.prefix + k.inner.POMKey(group, name, version)
}

// LatestKey generates a prefixed latest-version key.
func (k *ScopedKeyer) LatestKey(group, name string, opts LatestKeyOpts) string {
	return k.prefix + k.inner.LatestKey(group, name, opts)
}
