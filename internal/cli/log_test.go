package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/otsaudit/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	p.done("Resolved 3 artifacts")

	out := buf.String()
	if !strings.Contains(out, "Resolved 3 artifacts (") {
		t.Errorf("output = %q, want message with elapsed time", out)
	}
}

func TestRunTaskVerbose(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.verbose = true

	ran := false
	err := c.runTask(context.Background(), "Checking licenses", func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("runTask = %v, ran = %v", err, ran)
	}
	if !strings.Contains(buf.String(), "Checking licenses") {
		t.Errorf("log = %q, want task message", buf.String())
	}

	buf.Reset()
	boom := errors.New("boom")
	err = c.runTask(context.Background(), "Resolving", func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("runTask error = %v, want %v", err, boom)
	}
	if strings.Contains(buf.String(), "Resolving") {
		t.Error("failed task should not log completion")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)

	ctx := context.Background()
	observability.Scan().OnScanStart(ctx, "scan-1")
	observability.Cache().OnCacheMiss(ctx, "pom")
	observability.HTTP().OnResponse(ctx, "GET", "repo.example", "/a.pom", 404, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"scan started", "scan=scan-1", "cache miss", "status=404"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
