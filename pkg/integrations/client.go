package integrations

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/otsaudit/pkg/cache"
	"github.com/matzehuels/otsaudit/pkg/observability"
)

// Client provides shared HTTP functionality for repository clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string
}

// NewClient creates a Client. Cache keys are prefixed with namespace and
// stored for ttl. A nil cache disables caching. Headers are applied to all
// requests; pass nil if none are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.http = hc
}

// Cached retrieves v from cache or executes fetch and caches the result as
// JSON. If refresh is true, the cache is bypassed and fetch is always called.
// Retryable fetch errors are retried with backoff.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.namespace + key
	if !refresh {
		data, ok, err := c.cache.Get(ctx, key)
		if err == nil && ok && json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, c.namespace)
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, c.namespace)
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, c.namespace, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetXML performs an HTTP GET request and XML-decodes the response into v.
func (c *Client) GetXML(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := xml.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
