package io

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// DecodeDocument parses data in the given format. An empty format is
// detected with [DetectFormat].
func DecodeDocument(data []byte, format Format) (*Document, error) {
	if format == "" {
		format = DetectFormat(data)
	}
	var doc Document
	if err := unmarshal(data, format, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Decode parses data and builds it as a diagram of kind k (or of the kind
// the document names when k is KindUnknown).
func Decode(k diagram.Kind, data []byte, format Format) (diagram.Diagram, error) {
	doc, err := DecodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	return doc.Diagram(k)
}

// Read decodes a diagram from r. It does not close r.
func Read(k diagram.Kind, r io.Reader, format Format) (diagram.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read document")
	}
	return Decode(k, data, format)
}

// ReadFile decodes the document at path, choosing the format from its
// extension.
func ReadFile(k diagram.Kind, path string) (diagram.Diagram, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(k, data, format)
}

// ReadMermaid wraps raw Mermaid text from r in a passthrough diagram. The
// title and config, when given, go into the frontmatter.
func ReadMermaid(r io.Reader, title string, cfg *diagram.Config) (*diagram.Raw, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read mermaid text")
	}
	return diagram.NewRaw(string(data), title, cfg)
}

// ReadMermaidFile is [ReadMermaid] for a file path.
func ReadMermaidFile(path, title string, cfg *diagram.Config) (*diagram.Raw, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return diagram.NewRaw(string(data), title, cfg)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "open %s", path)
	}
	return data, nil
}
