package diagram

import "strings"

// Raw is caller-supplied Mermaid text passed through without modelling.
// Its kind is detected from the leading keyword.
type Raw struct {
	meta
	text string
	kind Kind
}

// NewRaw wraps text. Title and cfg are optional and become frontmatter in
// [BuildScript]; text that already carries frontmatter should be given
// without either. Raw diagrams never fail validation beyond their config.
func NewRaw(text, title string, cfg *Config) (*Raw, error) {
	r := &Raw{text: strings.TrimRight(text, "\r\n"), kind: DetectKind(text)}
	r.title = title
	if cfg != nil {
		c := cfg.clone()
		r.config = &c
	}
	if err := r.meta.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.text) == "" {
		return nil, configError("raw diagram is empty")
	}
	return r, nil
}

// Kind returns the detected kind, or [KindUnknown].
func (r *Raw) Kind() Kind { return r.kind }

// Render returns the text unchanged apart from trailing newlines.
func (r *Raw) Render() string { return r.text }
