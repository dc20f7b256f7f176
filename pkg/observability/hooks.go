// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic: libraries emit events
// through the registered hooks and the defaults do nothing. The CLI registers
// logging hooks at startup when run with --verbose.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetScanHooks(&myScanHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Scan().OnScanStart(ctx, scanID)
//	// ... flatten the graph ...
//	observability.Scan().OnScanComplete(ctx, scanID, n, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from an audit run.
type ScanHooks interface {
	// OnScanStart fires before the dependency graph is resolved.
	OnScanStart(ctx context.Context, scanID string)

	// OnScanComplete fires once the graph is flattened into artifacts.
	OnScanComplete(ctx context.Context, scanID string, artifacts int, duration time.Duration, err error)

	// OnClassify fires after a classification pass ("license", "freshness",
	// "delta"); flagged is the number of artifacts the pass flagged.
	OnClassify(ctx context.Context, pass string, flagged int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string)                               {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, time.Duration, error) {}
func (NoopScanHooks) OnClassify(context.Context, string, int, time.Duration)            {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scanHooks  ScanHooks  = NoopScanHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
