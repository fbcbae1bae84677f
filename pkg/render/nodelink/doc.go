// Package nodelink renders flowcharts locally with Graphviz.
//
// # Overview
//
// The mermaid.ink service renders every diagram kind but needs a network
// connection. This package covers the common offline case: flowcharts are
// converted to Graphviz DOT and laid out in-process, with no external
// binaries.
//
// # Usage
//
// Convert a flowchart to DOT, then render it:
//
//	dot := nodelink.ToDOT(f, nodelink.Options{Background: "#1e1e1e", Dark: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, 0, 0)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// [Engine] wraps both behind [render.Renderer] so the pipeline can switch
// between mermaid.ink and Graphviz with a flag.
//
// # Mapping
//
//   - Directions map to rankdir.
//   - Shapes map to the closest Graphviz shape (rhombus to diamond,
//     trapezoid to trapezium, and so on).
//   - Subgraphs become clusters. Links to a subgraph attach to its first
//     node and are clipped at the cluster border (compound=true).
//   - style, classDef/class and linkStyle become fillcolor, color,
//     fontcolor, penwidth and dashed styles.
//   - Dotted links are dashed, thick links get penwidth=3, invisible links
//     are invis. Circle and cross markers become dot and tee arrowheads.
//
// Layout differs from Mermaid's own; the output is a preview, not a
// pixel-identical rendering.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz
// as WebAssembly.
//
// [render.Renderer]: github.com/matzehuels/mermaid/pkg/render.Renderer
package nodelink
