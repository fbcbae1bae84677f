package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Format is a document serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported document formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported document format: %q (must be json, yaml or toml)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errs.New(errs.ErrCodeInvalidFormat, "cannot infer document format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// DetectFormat guesses the format of unlabelled input such as stdin: a
// leading '{' means JSON, anything else is read as YAML.
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}

func unmarshal(data []byte, format Format, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatTOML:
		err = toml.Unmarshal(data, v)
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported document format: %q", string(format))
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "decode %s document", format)
	}
	return nil
}

func marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode json document")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode yaml document")
		}
		if err := enc.Close(); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode yaml document")
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode toml document")
		}
		return buf.Bytes(), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported document format: %q", string(format))
}
