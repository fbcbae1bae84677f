package diagram

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Theme is a built-in Mermaid theme.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeForest  Theme = "forest"
	ThemeDark    Theme = "dark"
	ThemeNeutral Theme = "neutral"
	ThemeBase    Theme = "base"
)

// Themes lists the supported themes.
var Themes = []Theme{ThemeDefault, ThemeForest, ThemeDark, ThemeNeutral, ThemeBase}

// ParseTheme parses a theme name case-insensitively.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Themes {
		if t == known {
			return t, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "invalid theme: %q (must be default, forest, dark, neutral or base)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Theme) UnmarshalText(text []byte) error {
	v, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ThemeVariables overrides individual theme colors. Empty fields are omitted.
type ThemeVariables struct {
	PrimaryColor     string `json:"primary_color,omitempty" yaml:"primary_color,omitempty" toml:"primary_color,omitempty"`
	SecondaryColor   string `json:"secondary_color,omitempty" yaml:"secondary_color,omitempty" toml:"secondary_color,omitempty"`
	TertiaryColor    string `json:"tertiary_color,omitempty" yaml:"tertiary_color,omitempty" toml:"tertiary_color,omitempty"`
	PrimaryTextColor string `json:"primary_text_color,omitempty" yaml:"primary_text_color,omitempty" toml:"primary_text_color,omitempty"`
	LineColor        string `json:"line_color,omitempty" yaml:"line_color,omitempty" toml:"line_color,omitempty"`
	Background       string `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
}

// entries returns the set variables in their fixed emission order.
func (v ThemeVariables) entries() [][2]string {
	all := [][2]string{
		{"primaryColor", v.PrimaryColor},
		{"secondaryColor", v.SecondaryColor},
		{"tertiaryColor", v.TertiaryColor},
		{"primaryTextColor", v.PrimaryTextColor},
		{"lineColor", v.LineColor},
		{"background", v.Background},
	}
	out := all[:0]
	for _, kv := range all {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}

// Config is the per-diagram Mermaid configuration written to the frontmatter.
type Config struct {
	Theme     Theme           `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty"`
	Variables *ThemeVariables `json:"theme_variables,omitempty" yaml:"theme_variables,omitempty" toml:"theme_variables,omitempty"`
}

// Validate checks the theme name and the variable values.
func (c Config) Validate() error {
	if c.Theme != "" {
		if _, err := ParseTheme(string(c.Theme)); err != nil {
			return errs.New(errs.ErrCodeConfig, "%s", errs.UserMessage(err))
		}
	}
	if c.Variables != nil {
		for _, kv := range c.Variables.entries() {
			if strings.ContainsAny(kv[1], "\n\r") {
				return configError("theme variable %s contains a line break", kv[0])
			}
		}
	}
	return nil
}

// YAML renders the config as the `config:` block of a frontmatter header.
func (c Config) YAML() string {
	theme := c.Theme
	if theme == "" {
		theme = ThemeDefault
	}

	var b strings.Builder
	b.WriteString("config:\n")
	b.WriteString("  theme: " + string(theme) + "\n")
	if c.Variables != nil {
		if vars := c.Variables.entries(); len(vars) > 0 {
			b.WriteString("  themeVariables:\n")
			for _, kv := range vars {
				b.WriteString("    " + kv[0] + ": " + quoteYAML(kv[1]) + "\n")
			}
		}
	}
	return b.String()
}

func (c Config) clone() Config {
	out := Config{Theme: c.Theme}
	if c.Variables != nil {
		v := *c.Variables
		out.Variables = &v
	}
	return out
}

// quoteYAML returns s as a double-quoted YAML scalar.
func quoteYAML(s string) string {
	return strconv.Quote(s)
}
