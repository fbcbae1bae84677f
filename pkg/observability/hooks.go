// Package observability lets callers watch the render pipeline.
//
// The libraries in this module report builds, renders, cache lookups and
// mermaid.ink requests through three small interfaces. Nothing is reported
// until hooks are installed; the CLI installs logging hooks with --verbose.
//
// # Events
//
//   - [PipelineHooks]: building a diagram from input, rendering it
//   - [CacheHooks]: render cache hits, misses and writes
//   - [HTTPHooks]: requests to the render service
//
// # Usage
//
// Install hooks before work starts. Fields left nil keep what is installed,
// and the returned function puts the previous hooks back:
//
//	restore := observability.Install(observability.Hooks{
//	    Pipeline: metrics,
//	    HTTP:     metrics,
//	})
//	defer restore()
//
// Libraries emit events through the getters:
//
//	observability.Pipeline().OnRenderStart(ctx, "ink", "svg")
//	// ... render ...
//	observability.Pipeline().OnRenderComplete(ctx, "ink", "svg", len(out), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Build events cover decoding input and validating the diagram. source
	// is "diagram", "document" or "mermaid".
	OnBuildStart(ctx context.Context, kind, source string)
	OnBuildComplete(ctx context.Context, kind string, duration time.Duration, err error)

	// Render events cover one engine call, cache lookups excluded.
	OnRenderStart(ctx context.Context, engine, format string)
	OnRenderComplete(ctx context.Context, engine, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from the render cache. backend is the
// backend name: "file", "redis", "mongodb" or "none".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, backend string)
	OnCacheMiss(ctx context.Context, backend string)
	OnCacheSet(ctx context.Context, backend string, size int)
}

// HTTPHooks receives events for requests to the render service. Paths
// carry the encoded diagram.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError reports requests that got no response at all.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, string, string)                                {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, time.Duration, error)               {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// Hooks is the set of installed hooks.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var noop = Hooks{
	Pipeline: NoopPipelineHooks{},
	Cache:    NoopCacheHooks{},
	HTTP:     NoopHTTPHooks{},
}

var installed atomic.Pointer[Hooks]

func init() { installed.Store(&noop) }

// Install replaces the non-nil fields of h and returns a function that
// restores the hooks installed before the call.
func Install(h Hooks) (restore func()) {
	for {
		prev := installed.Load()
		next := *prev
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if installed.CompareAndSwap(prev, &next) {
			return func() { installed.Store(prev) }
		}
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return installed.Load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return installed.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return installed.Load().HTTP }

// Reset installs the no-op hooks.
func Reset() { installed.Store(&noop) }
