package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Options configures DOT generation.
type Options struct {
	// Background is the canvas color; empty means transparent.
	Background string
	// Dark switches nodes and edges to light-on-dark colors.
	Dark bool
	// DPI sets the raster resolution for PNG output. Zero uses 96.
	DPI float64
}

// dotShapes maps flowchart shapes to the closest Graphviz node shape.
var dotShapes = map[diagram.Shape][]string{
	diagram.ShapeRectangle:        {"shape=box"},
	diagram.ShapeRounded:          {"shape=box"},
	diagram.ShapeStadium:          {"shape=box"},
	diagram.ShapeSubroutine:       {"shape=box", "peripheries=2"},
	diagram.ShapeCylinder:         {"shape=cylinder"},
	diagram.ShapeCircle:           {"shape=circle"},
	diagram.ShapeAsymmetric:       {"shape=cds"},
	diagram.ShapeRhombus:          {"shape=diamond"},
	diagram.ShapeHexagon:          {"shape=hexagon"},
	diagram.ShapeParallelogram:    {"shape=parallelogram"},
	diagram.ShapeParallelogramAlt: {"shape=parallelogram"},
	diagram.ShapeTrapezoid:        {"shape=trapezium"},
	diagram.ShapeTrapezoidAlt:     {"shape=invtrapezium"},
	diagram.ShapeDoubleCircle:     {"shape=doublecircle"},
}

var dotMarkers = map[diagram.Marker]string{
	diagram.MarkerArrow:  "normal",
	diagram.MarkerCircle: "dot",
	diagram.MarkerCross:  "tee",
	diagram.MarkerNone:   "none",
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote returns s as a DOT string literal. Unlike %q it leaves non-ASCII
// text alone, which Graphviz reads as UTF-8.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// ToDOT converts a flowchart to Graphviz DOT source.
//
// Subgraphs become clusters (nested subgraphs nest), links to a subgraph
// attach to its first node and are clipped at the cluster border, and the
// styles set through style, classDef/class and linkStyle are translated to
// Graphviz attributes where an equivalent exists.
func ToDOT(f *diagram.Flowchart, opts Options) string {
	c := newConverter(f)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", f.Direction())
	buf.WriteString("  compound=true;\n")
	bg := opts.Background
	if bg == "" {
		bg = "transparent"
	}
	fmt.Fprintf(&buf, "  bgcolor=%s;\n", quote(bg))
	if opts.DPI > 0 {
		fmt.Fprintf(&buf, "  dpi=%s;\n", strconv.FormatFloat(opts.DPI, 'f', -1, 64))
	}
	if t := f.Title(); t != "" {
		fmt.Fprintf(&buf, "  label=%s;\n  labelloc=t;\n  fontsize=20;\n", quote(t))
	}
	if opts.Dark {
		buf.WriteString("  fontcolor=\"#cccccc\";\n")
		buf.WriteString("  node [shape=box, style=filled, fillcolor=\"#1f2020\", color=\"#cccccc\", fontcolor=\"#cccccc\", fontname=\"Helvetica\"];\n")
		buf.WriteString("  edge [color=\"#cccccc\", fontcolor=\"#cccccc\", fontname=\"Helvetica\"];\n")
	} else {
		buf.WriteString("  node [shape=box, style=filled, fillcolor=\"#ececff\", color=\"#9370db\", fontname=\"Helvetica\"];\n")
		buf.WriteString("  edge [color=\"#333333\", fontname=\"Helvetica\"];\n")
	}
	buf.WriteString("\n")

	for _, n := range f.Nodes() {
		if _, nested := f.Parent(n.ID); !nested {
			c.writeNode(&buf, n, 1)
		}
	}
	for _, sg := range f.Subgraphs() {
		if _, nested := f.Parent(sg.ID); !nested {
			c.writeCluster(&buf, sg, 1)
		}
	}

	buf.WriteString("\n")
	for i, l := range f.Links() {
		c.writeEdge(&buf, i, l)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type converter struct {
	nodes      map[string]diagram.Node
	subgraphs  map[string]diagram.Subgraph
	classStyle map[string]diagram.Style // node id -> merged class style
	linkStyle  map[int]diagram.Style
}

func newConverter(f *diagram.Flowchart) *converter {
	c := &converter{
		nodes:      make(map[string]diagram.Node),
		subgraphs:  make(map[string]diagram.Subgraph),
		classStyle: make(map[string]diagram.Style),
		linkStyle:  make(map[int]diagram.Style),
	}
	for _, n := range f.Nodes() {
		c.nodes[n.ID] = n
	}
	for _, sg := range f.Subgraphs() {
		c.subgraphs[sg.ID] = sg
	}
	defs := make(map[string]diagram.Style)
	for _, d := range f.ClassDefs() {
		defs[d.Name] = d.Style
	}
	for _, a := range f.Classes() {
		for _, id := range a.Nodes {
			c.classStyle[id] = merge(c.classStyle[id], defs[a.Class])
		}
	}
	for _, s := range f.LinkStyles() {
		c.linkStyle[s.Index] = merge(c.linkStyle[s.Index], s.Style)
	}
	return c
}

// merge overlays the set fields of top on base.
func merge(base, top diagram.Style) diagram.Style {
	if top.Fill != "" {
		base.Fill = top.Fill
	}
	if top.Color != "" {
		base.Color = top.Color
	}
	if top.Stroke != "" {
		base.Stroke = top.Stroke
	}
	if top.StrokeWidth != "" {
		base.StrokeWidth = top.StrokeWidth
	}
	if top.StrokeDasharray != "" {
		base.StrokeDasharray = top.StrokeDasharray
	}
	return base
}

func (c *converter) writeNode(buf *bytes.Buffer, n diagram.Node, depth int) {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	style := merge(c.classStyle[n.ID], n.Style)
	attrs := []string{"label=" + quote(label)}
	attrs = append(attrs, dotShapes[n.Shape]...)
	attrs = append(attrs, styleAttrs(style, false)...)

	flags := []string{"filled"}
	if n.Shape == diagram.ShapeRounded || n.Shape == diagram.ShapeStadium {
		flags = append(flags, "rounded")
	}
	if style.StrokeDasharray != "" {
		flags = append(flags, "dashed")
	}
	if len(flags) > 1 {
		attrs = append(attrs, "style="+quote(strings.Join(flags, ",")))
	}
	fmt.Fprintf(buf, "%s%s [%s];\n", indent(depth), quote(n.ID), strings.Join(attrs, ", "))
}

func (c *converter) writeCluster(buf *bytes.Buffer, sg diagram.Subgraph, depth int) {
	pad := indent(depth)
	fmt.Fprintf(buf, "%ssubgraph %s {\n", pad, quote("cluster_"+sg.ID))
	title := sg.Title
	if title == "" {
		title = sg.ID
	}
	fmt.Fprintf(buf, "%s  label=%s;\n", pad, quote(title))
	fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", pad)
	if len(sg.Members) == 0 {
		// Graphviz drops clusters without nodes.
		fmt.Fprintf(buf, "%s  %s [shape=point, style=invis];\n", pad, quote(anchorID(sg.ID)))
	}
	for _, m := range sg.Members {
		if n, ok := c.nodes[m]; ok {
			c.writeNode(buf, n, depth+1)
			continue
		}
		c.writeCluster(buf, c.subgraphs[m], depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", pad)
}

func (c *converter) writeEdge(buf *bytes.Buffer, index int, l diagram.Link) {
	from, ltail := c.endpoint(l.From)
	to, lhead := c.endpoint(l.To)

	var attrs []string
	if l.Label != "" {
		attrs = append(attrs, "label="+quote(l.Label))
	}
	if ltail != "" {
		attrs = append(attrs, "ltail="+quote(ltail))
	}
	if lhead != "" {
		attrs = append(attrs, "lhead="+quote(lhead))
	}

	switch l.Style {
	case diagram.LinkDotted:
		attrs = append(attrs, "style=dashed")
	case diagram.LinkThick:
		attrs = append(attrs, "penwidth=3")
	case diagram.LinkInvisible:
		attrs = append(attrs, "style=invis")
	}

	head := l.Head
	if head == diagram.MarkerDefault {
		head = diagram.MarkerArrow
		if l.Style == diagram.LinkOpen || l.Style == diagram.LinkInvisible {
			head = diagram.MarkerNone
		}
	}
	if head != diagram.MarkerArrow {
		attrs = append(attrs, "arrowhead="+dotMarkers[head])
	}
	if tail := l.Tail; tail != diagram.MarkerDefault && tail != diagram.MarkerNone {
		attrs = append(attrs, "dir=both", "arrowtail="+dotMarkers[tail])
	}
	if s, ok := c.linkStyle[index]; ok {
		attrs = append(attrs, styleAttrs(s, true)...)
	}

	if len(attrs) == 0 {
		fmt.Fprintf(buf, "  %s -> %s;\n", quote(from), quote(to))
		return
	}
	fmt.Fprintf(buf, "  %s -> %s [%s];\n", quote(from), quote(to), strings.Join(attrs, ", "))
}

// endpoint resolves a link endpoint to a DOT node. Subgraph endpoints use
// the first node inside the cluster and report the cluster for clipping.
func (c *converter) endpoint(id string) (node, cluster string) {
	sg, ok := c.subgraphs[id]
	if !ok {
		return id, ""
	}
	return c.firstNode(sg), "cluster_" + id
}

func (c *converter) firstNode(sg diagram.Subgraph) string {
	for _, m := range sg.Members {
		if _, ok := c.nodes[m]; ok {
			return m
		}
		if inner, ok := c.subgraphs[m]; ok {
			return c.firstNode(inner)
		}
	}
	return anchorID(sg.ID)
}

func anchorID(subgraph string) string { return "__" + subgraph + "_anchor" }

// styleAttrs translates Mermaid CSS to Graphviz attributes.
func styleAttrs(s diagram.Style, edge bool) []string {
	var attrs []string
	if s.Fill != "" && !edge {
		attrs = append(attrs, "fillcolor="+quote(s.Fill))
	}
	if s.Stroke != "" {
		attrs = append(attrs, "color="+quote(s.Stroke))
	}
	if s.Color != "" {
		attrs = append(attrs, "fontcolor="+quote(s.Color))
	}
	if w := strings.TrimSuffix(strings.TrimSpace(s.StrokeWidth), "px"); w != "" {
		if _, err := strconv.ParseFloat(w, 64); err == nil {
			attrs = append(attrs, "penwidth="+w)
		}
	}
	if s.StrokeDasharray != "" && edge {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

// RenderSVG renders DOT source to SVG using Graphviz. A positive width or
// height resizes the root element; the other side keeps the aspect ratio.
func RenderSVG(ctx context.Context, dot string, width, height int) ([]byte, error) {
	out, err := run(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out, width, height), nil
}

// RenderPNG renders DOT source to PNG using Graphviz. Resolution follows the
// dpi attribute set through [Options].DPI.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return run(ctx, dot, graphviz.PNG)
}

func run(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "graphviz %s render", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one whose viewBox
// starts at the origin and whose size is in pixels.
func normalizeViewBox(svg []byte, width, height int) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	outW, outH := w, h
	switch {
	case width > 0 && height > 0:
		outW, outH = float64(width), float64(height)
	case width > 0:
		outW, outH = float64(width), h*float64(width)/w
	case height > 0:
		outW, outH = w*float64(height)/h, float64(height)
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, outW, outH)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
