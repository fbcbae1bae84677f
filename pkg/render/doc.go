// Package render turns diagrams into images.
//
// # Overview
//
// Rendering is split between this package, which holds the types shared by
// every engine, and one subpackage per engine:
//
//   - [ink]: the mermaid.ink web service (all diagram kinds, SVG and PNG)
//   - [nodelink]: a local Graphviz engine for flowcharts
//
// Both implement [Renderer]. Mermaid text itself ([FormatMermaid]) needs no
// engine; [Script] returns it directly.
//
// # Encoding
//
// mermaid.ink and the mermaid.live editor take the script as unpadded
// base64url. [Encode] produces that segment and [EditorURL] a ready link:
//
//	url := render.EditorURL(d) // https://mermaid.live/edit#base64:Zmxvd2NoYXJ0...
//
// # Options
//
// [Options] carries width, height, scale and background color. Zero values
// leave the decision to the engine. Colors are validated with
// [errors.ValidateColor].
//
// [ink]: github.com/matzehuels/mermaid/pkg/render/ink
// [nodelink]: github.com/matzehuels/mermaid/pkg/render/nodelink
// [errors.ValidateColor]: github.com/matzehuels/mermaid/pkg/errors.ValidateColor
package render
