// Package pkg provides the libraries behind the mermaid CLI: building
// Mermaid diagrams in Go, reading them from documents and rendering them.
//
// # Overview
//
// A diagram is built with a fluent, validating builder, serialized to
// Mermaid text, and optionally rendered to SVG or PNG. The pkg directory is
// organized into four areas:
//
//  1. [diagram] - Diagram model and Mermaid serialization
//  2. [io] - JSON/YAML/TOML documents and command-line spec strings
//  3. [render] - Renderers (mermaid.ink, Graphviz) and output formats
//  4. [pipeline] - Orchestration (build → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	flags / document / raw Mermaid text
//	         ↓
//	    [io] package (decode document, parse specs)
//	         ↓
//	    [diagram] package (build + validate)
//	         ↓
//	    [diagram.BuildScript] (frontmatter + body)
//	         ↓
//	    [render] package (mermaid.ink or Graphviz)
//	         ↓
//	    Mermaid text, SVG or PNG
//
// # Quick Start
//
// Build a flowchart and print its script:
//
//	fc, err := diagram.NewFlowchart().
//	    Direction(diagram.LeftToRight).
//	    Node(diagram.Node{ID: "A", Label: "Start", Shape: diagram.ShapeStadium}).
//	    Node(diagram.Node{ID: "B", Label: "End"}).
//	    Link(diagram.Link{From: "A", To: "B"}).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(diagram.BuildScript(fc))
//
// Render it through the pipeline, with the file cache:
//
//	c, _ := cache.Open(ctx, "")
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//	res, err := runner.Execute(ctx, fc, pipeline.Options{Format: render.FormatSVG})
//
// # Main Packages
//
// [diagram] - Flowchart, sequence, state, ER, pie, mindmap, journey and
// requirement diagrams, plus [diagram.Raw] for text written by hand. Every
// diagram is immutable once built.
//
// [io] - [io.Document] is the serialized form of every diagram kind.
// Spec parsers turn strings such as "A->B:dotted:label" into diagram values.
//
// [render/ink] - Client for mermaid.ink, with retries on 5xx and 429.
//
// [render/nodelink] - Offline flowchart rendering with Graphviz.
//
// [cache] - Render cache backends: files, Redis, MongoDB or none.
//
// [pipeline] - Build and render shared by the CLI and the HTTP server.
//
// [observability] - Hooks for build, render, cache and HTTP events.
//
// [httputil] - Retry helpers for render transports.
//
// [errors] - Coded errors and input validators.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/diagram/...            # Specific package
//	go test -run Example                 # Examples only
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/diagram
// [diagram.BuildScript]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/diagram#BuildScript
// [diagram.Raw]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/diagram#Raw
// [io]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/io
// [io.Document]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/io#Document
// [render]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/render
// [render/ink]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/render/ink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mermaid/pkg/buildinfo
package pkg
