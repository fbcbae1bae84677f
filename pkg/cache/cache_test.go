package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/observability"
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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if n, err := c.Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear() = %d, %v", n, err)
	}
	if c.Backend() != BackendNone {
		t.Errorf("Backend() = %q", c.Backend())
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k1", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(k1) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("not json"), 0o644)

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		c.Set(ctx, k, []byte(k), time.Hour)
	}

	n, err := c.Clear(ctx)
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3", n, err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after Clear: %d entries", len(entries))
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	tests := []struct {
		spec    string
		backend string
	}{
		{"none", BackendNone},
		{"off", BackendNone},
		{"", BackendFile},
		{filepath.Join(dir, "custom"), BackendFile},
	}
	for _, tt := range tests {
		c, err := Open(ctx, tt.spec)
		if err != nil {
			t.Errorf("Open(%q): %v", tt.spec, err)
			continue
		}
		if c.Backend() != tt.backend {
			t.Errorf("Open(%q).Backend() = %q, want %q", tt.spec, c.Backend(), tt.backend)
		}
		c.Close()
	}

	if got, _ := DefaultDir(); got != filepath.Join(dir, "mermaid") {
		t.Errorf("DefaultDir() = %q", got)
	}
	if _, err := Open(ctx, "redis://host:notaport/x/y"); !errs.Is(err, errs.ErrCodeConfig) {
		t.Errorf("Open(bad redis URL) error = %v, want CONFIG_ERROR", err)
	}
	if _, err := Open(ctx, "mongodb://"); !errs.Is(err, errs.ErrCodeConfig) {
		t.Errorf("Open(bad mongodb URI) error = %v, want CONFIG_ERROR", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := RenderKeyOpts{Engine: "ink", Server: "https://mermaid.ink", Format: "svg"}

	key := k.RenderKey("flowchart TB", base)
	if len(key) != len("render:svg:")+64 || !strings.HasPrefix(key, "render:svg:") {
		t.Errorf("RenderKey() = %q", key)
	}
	if key != k.RenderKey("flowchart TB", base) {
		t.Error("RenderKey should be deterministic")
	}

	variants := []RenderKeyOpts{
		{Engine: "graphviz", Server: base.Server, Format: "svg"},
		{Engine: "ink", Server: "http://localhost:3000", Format: "svg"},
		{Engine: "ink", Server: base.Server, Format: "png"},
		{Engine: "ink", Server: base.Server, Format: "svg", Width: 800},
		{Engine: "ink", Server: base.Server, Format: "svg", Background: "#1e1e1e"},
	}
	for _, v := range variants {
		if k.RenderKey("flowchart TB", v) == key {
			t.Errorf("RenderKey(%+v) collides with base options", v)
		}
	}
	if k.RenderKey("flowchart LR", base) == key {
		t.Error("different scripts should produce different keys")
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets atomic.Int32
	backend            atomic.Value
}

func (h *countingCacheHooks) OnCacheHit(_ context.Context, backend string) {
	h.hits.Add(1)
	h.backend.Store(backend)
}
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses.Add(1) }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets.Add(1) }

func TestObserve(t *testing.T) {
	hooks := &countingCacheHooks{}
	defer observability.Install(observability.Hooks{Cache: hooks})()

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := Observe(fc)
	if Observe(c) != c {
		t.Error("Observe should not wrap twice")
	}

	c.Get(ctx, "k")
	c.Set(ctx, "k", []byte("v"), time.Hour)
	c.Get(ctx, "k")

	if hooks.hits.Load() != 1 || hooks.misses.Load() != 1 || hooks.sets.Load() != 1 {
		t.Errorf("hits/misses/sets = %d/%d/%d, want 1/1/1", hooks.hits.Load(), hooks.misses.Load(), hooks.sets.Load())
	}
	if got := hooks.backend.Load(); got != BackendFile {
		t.Errorf("backend = %v, want file", got)
	}
}
