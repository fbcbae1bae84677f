package diagram

import (
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Diagram is the facade every diagram variant satisfies.
//
// The set of implementations is closed: the unexported sealed method keeps
// other packages from adding variants, so a switch over [Kind] covers every
// diagram this package can produce.
type Diagram interface {
	// Render returns the Mermaid body text (without frontmatter).
	// It is pure, total and deterministic.
	Render() string

	// Kind identifies the diagram type and its leading keyword.
	Kind() Kind

	// Title returns the diagram title, or "" when none is set.
	Title() string

	// Config returns a copy of the diagram configuration, or nil.
	Config() *Config

	sealed()
}

// meta holds the optional fields shared by all variants.
type meta struct {
	title  string
	config *Config
}

func (m meta) Title() string { return m.title }

func (m meta) Config() *Config {
	if m.config == nil {
		return nil
	}
	c := m.config.clone()
	return &c
}

// frontmatterTitle is the title written into the YAML header. Variants whose
// grammar carries the title in the body override it to return "".
func (m meta) frontmatterTitle() string { return m.title }

func (meta) sealed() {}

func (m meta) validate() error {
	if m.config != nil {
		return m.config.Validate()
	}
	return nil
}

type frontmatterTitler interface {
	frontmatterTitle() string
}

// BuildScript returns the complete Mermaid script for d: the rendered body,
// preceded by a YAML frontmatter block when d has a title or a config.
//
//	---
//	title: Checkout
//	config:
//	  theme: dark
//	---
//
//	flowchart TB
//	...
func BuildScript(d Diagram) string {
	title := d.Title()
	if ft, ok := d.(frontmatterTitler); ok {
		title = ft.frontmatterTitle()
	}
	cfg := d.Config()
	if title == "" && cfg == nil {
		return d.Render()
	}

	var b strings.Builder
	b.WriteString("---\n")
	if title != "" {
		b.WriteString("title: ")
		b.WriteString(yamlScalar(title))
		b.WriteByte('\n')
	}
	if cfg != nil {
		b.WriteString(cfg.YAML())
	}
	b.WriteString("---\n\n")
	b.WriteString(d.Render())
	return b.String()
}

// yamlScalar renders s as a YAML scalar, quoting it only when needed.
func yamlScalar(s string) string {
	out, err := yaml.Marshal(s)
	if err != nil {
		return quoteYAML(s)
	}
	v := strings.TrimSuffix(string(out), "\n")
	if strings.Contains(v, "\n") {
		// Block scalars would break the single-line header.
		return quoteYAML(s)
	}
	return v
}

// configError builds the error returned by Build for a violated invariant.
func configError(format string, args ...any) error {
	return errs.New(errs.ErrCodeConfig, format, args...)
}

// validateID checks an identifier and prefixes the error with its context.
func validateID(what, id string) error {
	if err := errs.ValidateIdentifier(id); err != nil {
		return errs.New(errs.ErrCodeConfig, "invalid %s id: %s", what, errs.UserMessage(err))
	}
	return nil
}
