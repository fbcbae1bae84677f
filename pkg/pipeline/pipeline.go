// Package pipeline turns diagram input into a script or a rendered image.
//
// It is shared by the CLI commands and the HTTP server so both build,
// cache and render diagrams the same way.
//
// # Stages
//
//  1. Build: decode a document, wrap raw Mermaid text or take a diagram
//     built in code (see [Input])
//  2. Render: produce the Mermaid script, or an SVG/PNG image from
//     mermaid.ink or the local Graphviz engine
//
// Rendered images are cached by script and options; scripts are never
// cached since building them is cheap.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	d, err := runner.Build(ctx, pipeline.Input{Kind: diagram.KindPie, Document: data})
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, d, pipeline.Options{Format: render.FormatSVG})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("pie.svg", result.Artifact, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mermaid/pkg/cache"
	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// EngineInk renders through a mermaid.ink server.
	EngineInk = "ink"

	// EngineGraphviz renders flowcharts locally with Graphviz.
	EngineGraphviz = "graphviz"

	// DefaultEngine is used when Options.Engine is empty.
	DefaultEngine = EngineInk

	// DefaultFormat is used when Options.Format is empty.
	DefaultFormat = render.FormatMermaid
)

// ValidEngines is the set of supported render engines.
var ValidEngines = map[string]bool{
	EngineInk:      true,
	EngineGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for server requests.
type Options struct {
	Format     render.Format `json:"format,omitempty"`
	Engine     string        `json:"engine,omitempty"`
	Server     string        `json:"server,omitempty"` // mermaid.ink base URL
	Width      int           `json:"width,omitempty"`
	Height     int           `json:"height,omitempty"`
	Scale      float64       `json:"scale,omitempty"`
	Background string        `json:"background,omitempty"`
	Refresh    bool          `json:"refresh,omitempty"` // skip cache lookup
	Minify     bool          `json:"minify,omitempty"`  // minify SVG output

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result is the output of a pipeline run.
type Result struct {
	// Script is the full Mermaid text of the diagram.
	Script string

	// Kind is the diagram kind.
	Kind diagram.Kind

	// Artifact holds the script or the rendered image, per Format.
	Artifact []byte

	// Format is the format of Artifact.
	Format render.Format

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BuildTime  time.Duration
	RenderTime time.Duration
	Size       int
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid engine: %q (must be one of: ink, graphviz)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every field.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	f, err := render.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Server != "" && o.Engine == EngineInk {
		if err := errs.ValidateURL(o.Server); err != nil {
			return err
		}
	}
	if err := o.RenderOptions().Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RenderOptions returns the image options passed to the renderer.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Width:      o.Width,
		Height:     o.Height,
		Scale:      o.Scale,
		Background: o.Background,
	}
}

// RenderKeyOpts returns cache key options for a render.
// The server only matters for the ink engine.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{
		Engine:     o.Engine,
		Format:     string(o.Format),
		Width:      o.Width,
		Height:     o.Height,
		Scale:      o.Scale,
		Background: o.Background,
	}
	if o.Engine == EngineInk {
		k.Server = o.Server
	}
	return k
}

// IsImage reports whether the run renders an image rather than a script.
func (o *Options) IsImage() bool {
	return o.Format == render.FormatSVG || o.Format == render.FormatPNG
}
