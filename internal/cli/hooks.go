package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/otsaudit/pkg/observability"
)

// logHooks writes scan, cache and HTTP events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetScanHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnScanStart(_ context.Context, scanID string) {
	h.logger.Debug("scan started", "scan", scanID)
}

func (h *logHooks) OnScanComplete(_ context.Context, scanID string, artifacts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("scan failed", "scan", scanID, "duration", d, "err", err)
		return
	}
	h.logger.Debug("scan complete", "scan", scanID, "artifacts", artifacts, "duration", d)
}

func (h *logHooks) OnClassify(_ context.Context, pass string, flagged int, d time.Duration) {
	h.logger.Debug("classified", "pass", pass, "flagged", flagged, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "status", status, "host", host, "path", path, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
