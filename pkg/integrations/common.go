package integrations

import (
	"errors"
	"net/http"
	"time"

	"github.com/matzehuels/otsaudit/pkg/buildinfo"
)

const httpTimeout = 30 * time.Second

var userAgent = "otsaudit/" + buildinfo.Version

var (
	// ErrNotFound is returned when an artifact or resource doesn't exist in the repository.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for repository requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
