package render

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Format is the output format of a render.
type Format string

const (
	FormatSVG     Format = "svg"
	FormatPNG     Format = "png"
	FormatMermaid Format = "mermaid"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatSVG, FormatPNG, FormatMermaid}

// ParseFormat parses a format name. "mmd" is accepted for [FormatMermaid].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG, FormatMermaid:
		return f, nil
	case "mmd":
		return FormatMermaid, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "invalid output format: %q (must be svg, png or mermaid)", s)
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string {
	if f == FormatMermaid {
		return ".mmd"
	}
	return "." + string(f)
}

// ContentType returns the MIME type of rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	return "text/plain; charset=utf-8"
}

// Binary reports whether output in this format is not text.
func (f Format) Binary() bool { return f == FormatPNG }

// Options controls the size and background of rendered images.
// Zero values leave the choice to the renderer.
type Options struct {
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"` // "#1e1e1e" or a color name
}

// Validate checks that sizes are non-negative and the background is a color.
func (o Options) Validate() error {
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale must not be negative")
	}
	if o.Background != "" {
		return errs.ValidateColor(o.Background)
	}
	return nil
}

// Renderer turns a diagram into image bytes.
type Renderer interface {
	// Name identifies the renderer in logs and cache keys.
	Name() string
	// Render produces d in format, which is [FormatSVG] or [FormatPNG].
	Render(ctx context.Context, d diagram.Diagram, format Format, opts Options) ([]byte, error)
}

// Script returns the full Mermaid text of d, frontmatter included.
func Script(d diagram.Diagram) []byte {
	return []byte(diagram.BuildScript(d) + "\n")
}

// Encode returns script as unpadded base64url, the path segment used by
// mermaid.ink.
func Encode(script string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(script))
}

const editorURL = "https://mermaid.live/edit#base64:"

// EditorURL returns a mermaid.live link that opens d in the online editor.
func EditorURL(d diagram.Diagram) string {
	return ScriptEditorURL(diagram.BuildScript(d))
}

// ScriptEditorURL is [EditorURL] for Mermaid text.
func ScriptEditorURL(script string) string {
	return editorURL + Encode(script)
}
