// Package cache stores rendered diagrams so repeated renders skip the
// network.
//
// # Backends
//
//   - [FileCache]: one file per entry under ~/.cache/mermaid (CLI default)
//   - [RedisCache]: a shared Redis instance (redis:// URLs)
//   - [MongoCache]: a MongoDB collection with a TTL index (mongodb:// URLs)
//   - [NullCache]: caching disabled
//
// [Open] picks the backend from a single string, which is what the --cache
// flag and $MERMAID_CACHE accept:
//
//	c, err := cache.Open(ctx, "redis://localhost:6379/0")
//	defer c.Close()
//
// # Keys
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the full script together
// with every option that changes the output (engine, server, format, size,
// background), so a cached image is only reused for an identical request.
//
// [Observe] wraps any backend and reports hits, misses and writes to the
// hooks registered with observability.Install.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// TTLRender is how long a rendered image stays cached.
const TTLRender = 7 * 24 * time.Hour

// Backend names reported by [Cache.Backend].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongodb"
)

const appName = "mermaid"

// Cache is a byte store with per-entry expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)

	// Backend names the storage, e.g. "file" or "redis".
	Backend() string

	// Close releases connections and handles.
	Close() error
}

// Open returns the cache described by spec:
//
//   - "none" (or "off"): [NullCache]
//   - "redis://..." or "rediss://...": [RedisCache]
//   - "mongodb://..." or "mongodb+srv://...": [MongoCache]
//   - "": [FileCache] in [DefaultDir]
//   - anything else: [FileCache] in that directory
func Open(ctx context.Context, spec string) (Cache, error) {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == BackendNone || spec == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		return NewRedisCache(ctx, spec)
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		return NewMongoCache(ctx, spec)
	case spec == "":
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		return NewFileCache(dir)
	}
	if err := errs.ValidatePath(spec); err != nil {
		return nil, err
	}
	return NewFileCache(spec)
}

// DefaultDir returns the cache directory following the XDG convention
// ($XDG_CACHE_HOME/mermaid, else ~/.cache/mermaid).
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, err, "locate home directory")
	}
	return filepath.Join(home, ".cache", appName), nil
}
