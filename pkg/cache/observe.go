package cache

import (
	"context"
	"time"

	"github.com/matzehuels/mermaid/pkg/observability"
)

// observed reports cache traffic to the observability hooks.
type observed struct {
	Cache
}

// Observe wraps c so hits, misses and writes reach the hooks registered
// with observability.Install. Errors count as misses.
func Observe(c Cache) Cache {
	if _, ok := c.(*observed); ok {
		return c
	}
	return &observed{Cache: c}
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if hit && err == nil {
		observability.Cache().OnCacheHit(ctx, o.Backend())
	} else {
		observability.Cache().OnCacheMiss(ctx, o.Backend())
	}
	return data, hit, err
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, o.Backend(), len(data))
	}
	return err
}
