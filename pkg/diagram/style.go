package diagram

import (
	"strings"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Style holds the CSS attributes Mermaid accepts on nodes, classes and links.
type Style struct {
	Fill            string `json:"fill,omitempty" yaml:"fill,omitempty" toml:"fill,omitempty"`
	Color           string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Stroke          string `json:"stroke,omitempty" yaml:"stroke,omitempty" toml:"stroke,omitempty"`
	StrokeWidth     string `json:"stroke_width,omitempty" yaml:"stroke_width,omitempty" toml:"stroke_width,omitempty"`
	StrokeDasharray string `json:"stroke_dasharray,omitempty" yaml:"stroke_dasharray,omitempty" toml:"stroke_dasharray,omitempty"`
}

// styleKeys is the fixed emission order.
var styleKeys = []string{"fill", "color", "stroke", "stroke-width", "stroke-dasharray"}

func (s Style) values() []string {
	return []string{s.Fill, s.Color, s.Stroke, s.StrokeWidth, s.StrokeDasharray}
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// String renders the set attributes as "key:value" pairs joined by commas.
func (s Style) String() string {
	var parts []string
	for i, v := range s.values() {
		if v != "" {
			parts = append(parts, styleKeys[i]+":"+v)
		}
	}
	return strings.Join(parts, ",")
}

func (s Style) validate() error {
	for i, v := range s.values() {
		if strings.ContainsAny(v, ",;\n\r") {
			return configError("style %s value %q contains a separator", styleKeys[i], v)
		}
	}
	return nil
}

// ParseStyle parses a CSS list such as "fill:#f9f,stroke:#333,stroke-width:4px".
func ParseStyle(css string) (Style, error) {
	var s Style
	fields := map[string]*string{
		"fill":             &s.Fill,
		"color":            &s.Color,
		"stroke":           &s.Stroke,
		"stroke-width":     &s.StrokeWidth,
		"stroke-dasharray": &s.StrokeDasharray,
	}
	for _, part := range strings.Split(css, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			return Style{}, errs.New(errs.ErrCodeInvalidInput, "invalid style %q: expected key:value", part)
		}
		dst, known := fields[strings.TrimSpace(key)]
		if !known {
			return Style{}, errs.New(errs.ErrCodeInvalidInput, "unknown style attribute %q", key)
		}
		*dst = strings.TrimSpace(value)
	}
	return s, nil
}
