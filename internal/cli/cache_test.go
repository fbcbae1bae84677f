package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mermaid/pkg/cache"
)

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "cache", "path", "--cache", dir)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCachePathDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	t.Setenv(envCache, "")

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(home, appName)
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCachePathNone(t *testing.T) {
	out, err := execute(t, "cache", "path", "--cache", "none")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != cache.BackendNone {
		t.Errorf("cache path = %q, want %q", got, cache.BackendNone)
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := execute(t, "cache", "clear", "--cache", dir); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived cache clear")
	}
}

// execute runs the root command with args and returns what it wrote to
// stdout. Status output is discarded.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeIn(t, "", args...)
}

// executeIn is execute with stdin.
func executeIn(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	prevOut, prevQuiet := statusOut, quietStatus
	statusOut = &bytes.Buffer{}
	t.Cleanup(func() { statusOut, quietStatus = prevOut, prevQuiet })

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

