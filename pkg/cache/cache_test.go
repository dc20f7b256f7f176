package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("maven:", "metadata"); got != "http:maven:metadata" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}
	if got := k.POMKey("org.slf4j", "slf4j-api", "2.0.9"); got != "pom:org.slf4j:slf4j-api:2.0.9" {
		t.Errorf("POMKey unexpected: %s", got)
	}

	lk1 := k.LatestKey("org.slf4j", "slf4j-api", LatestKeyOpts{Stability: "default"})
	lk2 := k.LatestKey("org.slf4j", "slf4j-api", LatestKeyOpts{Stability: "^[0-9.]+$"})
	if lk1 == lk2 {
		t.Error("Different LatestKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "latest:org.slf4j:slf4j-api:") {
		t.Errorf("LatestKey unexpected: %s", lk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "repo1.maven.org:")

	if got := scoped.HTTPKey("maven:", "x"); got != "repo1.maven.org:http:maven:x" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", got)
	}
	if got := scoped.POMKey("g", "n", "1"); got != "repo1.maven.org:pom:g:n:1" {
		t.Errorf("ScopedKeyer POMKey unexpected: %s", got)
	}
	if got := scoped.LatestKey("g", "n", LatestKeyOpts{}); !strings.HasPrefix(got, "repo1.maven.org:latest:") {
		t.Errorf("ScopedKeyer LatestKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.HTTPKey("test:", "key"); key != "prefix:http:test:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get(key) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("key should be gone after Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("ttl 0 entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, "not a url"); err == nil {
		t.Error("expected error for malformed url")
	}

	// Port 1 is never a Redis server.
	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0?dial_timeout=100ms")
	if err == nil || !strings.Contains(err.Error(), "redis ping 127.0.0.1:1") {
		t.Errorf("err = %v, want redis ping failure", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	refused := errors.New("connection refused")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"marked", Retryable(refused), true},
		{"marked and wrapped", fmt.Errorf("fetch pom: %w", Retryable(refused)), true},
		{"plain", refused, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
	if err := Retryable(refused); err.Error() != refused.Error() || !errors.Is(err, refused) {
		t.Errorf("Retryable should keep the wrapped error: %v", err)
	}
}

func TestRetry(t *testing.T) {
	unavailable := errors.New("503 service unavailable")
	notFound := errors.New("404 not found")

	tests := []struct {
		name      string
		results   []error // returned by successive calls; nil after the end
		wantErr   error
		wantCalls int
	}{
		{"first call succeeds", nil, nil, 1},
		{"permanent error stops", []error{notFound}, notFound, 1},
		{"retry then succeed", []error{Retryable(unavailable)}, nil, 2},
		{"retryable then permanent", []error{Retryable(unavailable), notFound}, notFound, 2},
		{"attempts exhausted", []error{Retryable(unavailable), Retryable(unavailable), Retryable(unavailable), nil}, unavailable, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retry(context.Background(), 3, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.results) {
					return tt.results[calls-1]
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errors.New("connection reset"))
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
