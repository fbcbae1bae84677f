package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", LogInfo, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info", LogInfo, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug", LogDebug, func(l *log.Logger) { l.Debug("x") }, true},
		{"info at error", LogError, func(l *log.Logger) { l.Info("x") }, false},
		{"error at error", LogError, func(l *log.Logger) { l.Error("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	time.Sleep(5 * time.Millisecond)
	prog.done("Generated pie svg")

	out := buf.String()
	if !strings.Contains(out, "Generated pie svg (") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	custom := newLogger(&bytes.Buffer{}, LogInfo)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, LogDebug))
	ctx := context.Background()

	h.OnBuildStart(ctx, "pie", "document")
	h.OnBuildComplete(ctx, "pie", time.Millisecond, nil)
	h.OnRenderStart(ctx, "ink", "svg")
	h.OnRenderComplete(ctx, "ink", "svg", 0, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "file")
	h.OnCacheMiss(ctx, "redis")
	h.OnCacheSet(ctx, "file", 42)
	h.OnRequest(ctx, "GET", "mermaid.ink", "/svg/{encoded}")
	h.OnResponse(ctx, "GET", "mermaid.ink", "/svg/{encoded}", 200, time.Millisecond)
	h.OnError(ctx, "GET", "mermaid.ink", "/svg/{encoded}", errors.New("refused"))

	out := buf.String()
	for _, want := range []string{
		"trace",
		"build started", "build complete",
		"render started", "render failed", "boom",
		"cache hit", "cache miss", "cache set",
		"http request", "http response", "http error", "refused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output lacks %q:\n%s", want, out)
		}
	}
}

func TestLogHooksSilentAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, LogInfo))
	h.OnCacheHit(context.Background(), "file")
	if buf.Len() != 0 {
		t.Errorf("hooks logged at info level: %q", buf.String())
	}
}
