package io

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

func TestTemplatesBuild(t *testing.T) {
	for _, k := range diagram.Kinds {
		t.Run(k.String(), func(t *testing.T) {
			doc, err := Template(k)
			if err != nil {
				t.Fatalf("Template: %v", err)
			}
			d, err := doc.Diagram(diagram.KindUnknown)
			if err != nil {
				t.Fatalf("Diagram: %v", err)
			}
			if d.Kind() != k {
				t.Errorf("Kind() = %v, want %v", d.Kind(), k)
			}
		})
	}
	if _, err := Template(diagram.KindUnknown); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Template(unknown) error = %v, want NOT_FOUND", err)
	}
}

// Every template survives an encode/decode cycle in every format with an
// identical script.
func TestTemplatesRoundTrip(t *testing.T) {
	for _, k := range diagram.Kinds {
		doc, _ := Template(k)
		orig, err := doc.Diagram(k)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		for _, f := range Formats {
			data, err := Encode(doc, f)
			if err != nil {
				t.Errorf("%s/%s: Encode: %v", k, f, err)
				continue
			}
			back, err := Decode(diagram.KindUnknown, data, f)
			if err != nil {
				t.Errorf("%s/%s: Decode: %v\n%s", k, f, err, data)
				continue
			}
			if got, want := diagram.BuildScript(back), diagram.BuildScript(orig); got != want {
				t.Errorf("%s/%s: script changed\ngot:\n%s\nwant:\n%s", k, f, got, want)
			}
		}
	}
}

func TestExportDocument(t *testing.T) {
	doc, _ := Template(diagram.KindPie)
	path := filepath.Join(t.TempDir(), "pie.toml")
	if err := ExportDocument(doc, path); err != nil {
		t.Fatalf("ExportDocument: %v", err)
	}
	d, err := ReadFile(diagram.KindUnknown, path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if d.Kind() != diagram.KindPie {
		t.Errorf("Kind() = %v, want pie", d.Kind())
	}

	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc, Format("xml")); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("WriteDocument(xml) error = %v, want INVALID_FORMAT", err)
	}
}
