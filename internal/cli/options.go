package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/pipeline"
	"github.com/matzehuels/mermaid/pkg/render"
	"github.com/matzehuels/mermaid/pkg/render/ink"
)

// Environment variables read as flag defaults.
const (
	envCache = "MERMAID_CACHE"
	envMode  = "MERMAID_MODE"
)

// Display modes. Dark mode switches to the dark theme on a #1e1e1e background.
const (
	modeLight = "light"
	modeDark  = "dark"

	darkBackground = "#1e1e1e"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	server    string
	engine    string
	mode      string
	theme     string
	output    string
	stdout    bool
	clipboard bool
	open      bool
	format    string
	width     int
	height    int
	scale     float64
	cache     string
	noCache   bool
	refresh   bool
	minify    bool
	quiet     bool
	verbose   bool

	formatSet bool
}

// register binds the flags. Defaults come from the environment, which
// main fills from .env first.
func (o *globalOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.server, "server", "s", os.Getenv(ink.ServerEnv), "mermaid.ink server URL (env "+ink.ServerEnv+")")
	fs.StringVar(&o.engine, "engine", pipeline.DefaultEngine, "render engine: ink or graphviz (flowcharts only)")
	fs.StringVar(&o.mode, "mode", envOr(envMode, modeDark), "display mode: light or dark")
	fs.StringVarP(&o.theme, "theme", "t", "", "diagram theme: default, forest, dark, neutral or base (overrides --mode)")
	fs.StringVarP(&o.output, "output", "o", "", "output file (extension picks the format: .svg, .png, .mmd)")
	fs.BoolVar(&o.stdout, "stdout", false, "write to stdout")
	fs.BoolVar(&o.clipboard, "clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&o.open, "open", false, "open the result in the browser")
	fs.StringVarP(&o.format, "format", "f", string(render.FormatSVG), "output format: svg, png or mermaid")
	fs.IntVar(&o.width, "width", 0, "image width in pixels")
	fs.IntVar(&o.height, "height", 0, "image height in pixels")
	fs.Float64Var(&o.scale, "scale", 0, "image scale factor (0.1 to 3)")
	fs.StringVar(&o.cache, "cache", os.Getenv(envCache), "render cache: directory, redis://, mongodb:// or none (env "+envCache+")")
	fs.BoolVar(&o.noCache, "no-cache", false, "disable the render cache")
	fs.BoolVar(&o.refresh, "refresh", false, "render again even when cached")
	fs.BoolVar(&o.minify, "minify", false, "minify SVG output")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose logging")
}

// validate normalizes the flags once they are parsed. An output extension
// picks the format unless --format was given explicitly.
func (o *globalOptions) validate() error {
	o.mode = strings.ToLower(strings.TrimSpace(o.mode))
	if o.mode != modeLight && o.mode != modeDark {
		return errs.New(errs.ErrCodeInvalidInput, "invalid mode: %q (must be light or dark)", o.mode)
	}
	if o.theme != "" {
		if _, err := diagram.ParseTheme(o.theme); err != nil {
			return err
		}
	}
	if o.scale != 0 && (o.scale < 0.1 || o.scale > 3) {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be between 0.1 and 3, got %g", o.scale)
	}
	if o.noCache {
		o.cache = "none"
	}

	if !o.formatSet && o.output != "" {
		if f, err := render.ParseFormat(strings.TrimPrefix(filepath.Ext(o.output), ".")); err == nil {
			o.format = string(f)
		}
	}
	f, err := render.ParseFormat(o.format)
	if err != nil {
		return err
	}
	o.format = string(f)
	return nil
}

// diagramConfig returns the config applied to built diagrams: --theme when
// given, else the theme of the mode.
func (o *globalOptions) diagramConfig() *diagram.Config {
	if o.theme != "" {
		t, _ := diagram.ParseTheme(o.theme)
		return &diagram.Config{Theme: t}
	}
	if o.mode == modeDark {
		return &diagram.Config{Theme: diagram.ThemeDark}
	}
	return &diagram.Config{Theme: diagram.ThemeDefault}
}

// background is the image background for the mode.
func (o *globalOptions) background() string {
	if o.mode == modeDark {
		return darkBackground
	}
	return ""
}

// pipelineOptions converts the flags to pipeline options.
func (o *globalOptions) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Format:     render.Format(o.format),
		Engine:     o.engine,
		Server:     o.server,
		Width:      o.width,
		Height:     o.height,
		Scale:      o.scale,
		Background: o.background(),
		Refresh:    o.refresh,
		Minify:     o.minify,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
