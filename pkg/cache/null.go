package cache

import (
	"context"
	"time"
)

// NullCache stores nothing; every Get misses. It backs --cache none and
// --no-cache, so the pipeline needs no nil checks.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Clear(context.Context) (int, error)                       { return 0, nil }
func (NullCache) Backend() string                                          { return BackendNone }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
