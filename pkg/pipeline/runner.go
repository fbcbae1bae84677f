package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mermaid/pkg/cache"
	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/observability"
	"github.com/matzehuels/mermaid/pkg/render"
	"github.com/matzehuels/mermaid/pkg/render/ink"
	"github.com/matzehuels/mermaid/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// NewRenderer picks the renderer for a run. Nil uses [DefaultRenderer].
	NewRenderer func(opts Options) render.Renderer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Observe(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// DefaultRenderer returns a mermaid.ink client for the ink engine and the
// Graphviz engine otherwise.
func DefaultRenderer(opts Options) render.Renderer {
	if opts.Engine == EngineGraphviz {
		return nodelink.NewEngine()
	}
	return ink.NewClient(opts.Server)
}

// Execute renders d in opts.Format. The mermaid format returns the script
// itself; images are looked up in the cache first unless opts.Refresh is set.
// The cache holds SVGs as rendered; opts.Minify applies on the way out.
func (r *Runner) Execute(ctx context.Context, d diagram.Diagram, opts Options) (*Result, error) {
	if d == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no diagram to render")
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	script := diagram.BuildScript(d)
	result := &Result{
		Script: script,
		Kind:   d.Kind(),
		Format: opts.Format,
	}

	if !opts.IsImage() {
		result.Artifact = render.Script(d)
		result.Stats.Size = len(result.Artifact)
		return result, nil
	}

	renderStart := time.Now()
	artifact, hit, err := r.renderWithCache(ctx, d, script, opts)
	if err != nil {
		return nil, err
	}
	if opts.Minify && opts.Format == render.FormatSVG {
		if artifact, err = render.MinifySVG(artifact); err != nil {
			return nil, err
		}
	}
	result.Artifact = artifact
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Size = len(artifact)

	logger.Info("rendered diagram",
		"kind", d.Kind(),
		"engine", opts.Engine,
		"format", opts.Format,
		"bytes", len(artifact),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Run builds in and executes the result in one call.
func (r *Runner) Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	buildStart := time.Now()
	d, err := r.Build(ctx, in)
	if err != nil {
		return nil, err
	}
	buildTime := time.Since(buildStart)

	result, err := r.Execute(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = buildTime
	return result, nil
}

func (r *Runner) renderWithCache(ctx context.Context, d diagram.Diagram, script string, opts Options) ([]byte, bool, error) {
	cacheKey := r.Keyer.RenderKey(script, opts.RenderKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			return data, true, nil
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "backend", r.Cache.Backend(), "error", err)
		}
	}

	renderer := r.renderer(opts)
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, renderer.Name(), string(opts.Format))
	start := time.Now()

	data, err := renderer.Render(ctx, d, opts.Format, opts.RenderOptions())
	hooks.OnRenderComplete(ctx, renderer.Name(), string(opts.Format), len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// A failed write only costs the next run a render.
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRender); err != nil {
		r.Logger.Warn("cache write failed", "backend", r.Cache.Backend(), "error", err)
	}
	return data, false, nil
}

func (r *Runner) renderer(opts Options) render.Renderer {
	if r.NewRenderer != nil {
		return r.NewRenderer(opts)
	}
	return DefaultRenderer(opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
