package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	mmio "github.com/matzehuels/mermaid/pkg/io"
	"github.com/matzehuels/mermaid/pkg/observability"
)

// Input is the source of a diagram. Exactly one of Diagram, Document and
// Mermaid is used, checked in that order.
type Input struct {
	// Kind is the diagram kind a Document is built as. KindUnknown takes
	// the kind named in the document.
	Kind diagram.Kind

	// Diagram is a diagram built in code.
	Diagram diagram.Diagram

	// Document is a JSON, YAML or TOML diagram document.
	Document []byte

	// DocumentFormat is the format of Document; empty means detect.
	DocumentFormat mmio.Format

	// Mermaid is raw Mermaid text, passed through unchanged.
	Mermaid string

	// Title and Config go into the frontmatter of raw Mermaid text. For
	// documents they fill in what the document leaves unset.
	Title  string
	Config *diagram.Config
}

// source names the kind of input for logs and hooks.
func (in Input) source() string {
	switch {
	case in.Diagram != nil:
		return "diagram"
	case len(in.Document) > 0:
		return "document"
	case in.Mermaid != "":
		return "mermaid"
	}
	return "empty"
}

// Build turns in into a diagram.
func (r *Runner) Build(ctx context.Context, in Input) (diagram.Diagram, error) {
	src := in.source()
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, in.Kind.String(), src)
	start := time.Now()

	d, err := build(in)

	kind := in.Kind.String()
	if d != nil {
		kind = d.Kind().String()
	}
	hooks.OnBuildComplete(ctx, kind, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("built diagram", "kind", kind, "source", src, "duration", time.Since(start))
	return d, nil
}

func build(in Input) (diagram.Diagram, error) {
	switch {
	case in.Diagram != nil:
		if in.Kind != diagram.KindUnknown && in.Diagram.Kind() != in.Kind {
			return nil, errs.New(errs.ErrCodeInvalidInput, "expected a %s diagram, got %s", in.Kind, in.Diagram.Kind())
		}
		return in.Diagram, nil
	case len(in.Document) > 0:
		doc, err := mmio.DecodeDocument(in.Document, in.DocumentFormat)
		if err != nil {
			return nil, err
		}
		if doc.Title == "" {
			doc.Title = in.Title
		}
		if doc.Config == nil {
			doc.Config = in.Config
		}
		return doc.Diagram(in.Kind)
	case strings.TrimSpace(in.Mermaid) != "":
		raw, err := diagram.NewRaw(in.Mermaid, in.Title, in.Config)
		if err != nil {
			return nil, err
		}
		return raw, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "no diagram input")
}
