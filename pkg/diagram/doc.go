// Package diagram models Mermaid diagrams and serializes them to Mermaid text.
//
// # Overview
//
// Each supported diagram type has a builder that accumulates entities and a
// Build method that validates them and returns an immutable diagram. Every
// diagram satisfies [Diagram]; the set of implementations is closed, so a
// switch over [Kind] is exhaustive.
//
//	fc, err := diagram.NewFlowchart().
//		Node(diagram.Node{ID: "start", Label: "Start", Shape: diagram.ShapeStadium}).
//		Node(diagram.Node{ID: "end", Label: "End", Shape: diagram.ShapeStadium}).
//		Link(diagram.Link{From: "start", To: "end"}).
//		Build()
//	if err != nil {
//		return err
//	}
//	fmt.Println(diagram.BuildScript(fc))
//
// # Validation
//
// All invariants are checked in Build: identifiers are non-empty and free of
// grammar delimiters, references point at declared entities, subgraph
// membership forms a forest, and mindmap depths never skip a level.
// Violations are reported as errors with code CONFIG_ERROR. Once built, a
// diagram always renders; Render never fails.
//
// # Rendering
//
// Render output is deterministic. Entities appear in insertion order,
// nested constructs are indented two spaces per level, and labels are
// escaped with Mermaid entity codes (#quot;, #59; and friends) so that a
// label can never terminate its field early. [BuildScript] adds a YAML
// frontmatter block carrying the title and [Config] when either is set.
//
// [Raw] wraps hand-written Mermaid text so it can travel through the same
// pipeline as modelled diagrams.
//
// # Concurrency
//
// Built diagrams are immutable. Accessors return copies, and Render may be
// called from multiple goroutines.
package diagram
