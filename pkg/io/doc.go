// Package io reads diagrams from JSON, YAML and TOML documents and from the
// compact spec strings accepted by CLI flags.
//
// # Documents
//
// A [Document] is one flat object whose fields depend on the diagram kind.
// The kind either comes from the caller (the CLI subcommand, the HTTP route)
// or from the document's own "kind" field:
//
//	{
//	  "kind": "flowchart",
//	  "direction": "LR",
//	  "nodes": [
//	    {"id": "A", "label": "Start", "shape": "stadium"},
//	    {"id": "B", "label": "End", "shape": "stadium"}
//	  ],
//	  "links": [{"from": "A", "to": "B", "label": "go"}]
//	}
//
// The same document in YAML:
//
//	direction: LR
//	nodes:
//	  - {id: A, label: Start, shape: stadium}
//	  - {id: B, label: End, shape: stadium}
//	links:
//	  - {from: A, to: B, label: go}
//
// Every kind accepts "title" and "config" ({"theme": "dark",
// "theme_variables": {"primary_color": "#ff0000"}}). Enumerations are
// written by name ("dotted-arrow", "zero-or-more", "satisfies") and matched
// case-insensitively.
//
// # Import
//
// [ReadFile] picks the format from the file extension (.json, .yaml, .yml,
// .toml). [Read] and [Decode] take an explicit [Format]; an empty format is
// guessed with [DetectFormat], which treats input starting with '{' as JSON
// and everything else as YAML. Decoding failures are PARSE_ERROR; documents
// that decode but describe an invalid diagram fail in the builders with
// CONFIG_ERROR.
//
// [ReadMermaid] wraps hand-written Mermaid text in a passthrough diagram.
//
// # Spec Strings
//
// The ParseXSpec functions turn flag values into model values:
//
//	n, _ := io.ParseNodeSpec("db:Postgres:cylinder")
//	l, _ := io.ParseLinkSpec("api->db:dotted:query")
//
// # Export
//
// [Encode], [WriteDocument] and [ExportDocument] serialize a Document, which
// is how the starter documents from [Template] are written to disk.
package io
