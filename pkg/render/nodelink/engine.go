package nodelink

import (
	"context"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/render"
)

// basePNGDPI is the resolution of a PNG rendered at scale 1.
const basePNGDPI = 96

// Engine renders flowcharts locally with Graphviz. Other diagram kinds
// are UNSUPPORTED.
type Engine struct{}

// NewEngine returns a Graphviz engine.
func NewEngine() *Engine { return &Engine{} }

// Name implements [render.Renderer].
func (*Engine) Name() string { return "graphviz" }

// Render implements [render.Renderer]. The dark theme selects light-on-dark
// colors; opts.Scale multiplies the PNG resolution.
func (*Engine) Render(ctx context.Context, d diagram.Diagram, format render.Format, opts render.Options) ([]byte, error) {
	f, ok := d.(*diagram.Flowchart)
	if !ok {
		return nil, errs.New(errs.ErrCodeUnsupported, "graphviz engine renders flowcharts only, not %s", d.Kind())
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	dotOpts := Options{Background: opts.Background}
	if cfg := f.Config(); cfg != nil && cfg.Theme == diagram.ThemeDark {
		dotOpts.Dark = true
	}

	switch format {
	case render.FormatSVG:
		return RenderSVG(ctx, ToDOT(f, dotOpts), opts.Width, opts.Height)
	case render.FormatPNG:
		dotOpts.DPI = basePNGDPI
		if opts.Scale > 0 {
			dotOpts.DPI *= opts.Scale
		}
		return RenderPNG(ctx, ToDOT(f, dotOpts))
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "graphviz engine cannot render format %q", format)
}

var _ render.Renderer = (*Engine)(nil)
