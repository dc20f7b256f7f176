// Package integrations provides the shared HTTP plumbing for artifact
// repository clients.
//
// The [Client] type wraps an [http.Client] with:
//   - Response caching through any [cache.Cache] backend, keyed per namespace
//   - Retry with exponential backoff for network errors and 5xx responses
//   - Default headers and a User-Agent
//   - Request events reported to [observability.HTTP]
//
// Repository-specific clients embed it; see the maven subpackage.
//
// # Errors
//
// HTTP 404 maps to [ErrNotFound]. Connection failures and 5xx responses map
// to [ErrNetwork] wrapped as retryable; other statuses map to [ErrNetwork]
// without retry.
package integrations
