package io

import (
	"io"
	"os"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Encode serializes doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	return marshal(doc, format)
}

// WriteDocument encodes doc to w. It does not close w.
func WriteDocument(w io.Writer, doc *Document, format Format) error {
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write document")
	}
	return nil
}

// ExportDocument writes doc to path in the format its extension names.
func ExportDocument(doc *Document, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
