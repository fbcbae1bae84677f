package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set MERMAID_TEST_REDIS_URL or MERMAID_TEST_MONGODB_URI to run these
// against real servers.
func TestBackendsIntegration(t *testing.T) {
	ctx := context.Background()
	specs := map[string]string{
		BackendRedis: os.Getenv("MERMAID_TEST_REDIS_URL"),
		BackendMongo: os.Getenv("MERMAID_TEST_MONGODB_URI"),
	}
	for backend, spec := range specs {
		t.Run(backend, func(t *testing.T) {
			if spec == "" {
				t.Skip("no server configured")
			}
			c, err := Open(ctx, spec)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer c.Close()
			if c.Backend() != backend {
				t.Errorf("Backend() = %q, want %q", c.Backend(), backend)
			}

			if err := c.Set(ctx, "it:key", []byte("payload"), time.Minute); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, hit, err := c.Get(ctx, "it:key")
			if err != nil || !hit || string(data) != "payload" {
				t.Errorf("Get = %q, %v, %v", data, hit, err)
			}
			if err := c.Delete(ctx, "it:key"); err != nil {
				t.Errorf("Delete: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "it:key"); hit {
				t.Error("entry survived Delete")
			}

			c.Set(ctx, "it:a", []byte("a"), time.Minute)
			c.Set(ctx, "it:b", []byte("b"), time.Minute)
			if n, err := c.Clear(ctx); err != nil || n < 2 {
				t.Errorf("Clear() = %d, %v; want >= 2", n, err)
			}
		})
	}
}
