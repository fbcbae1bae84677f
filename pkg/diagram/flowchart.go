package diagram

import (
	"slices"
	"strconv"
	"strings"
)

// Shape is the outline of a flowchart node.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeRounded
	ShapeStadium
	ShapeSubroutine
	ShapeCylinder
	ShapeCircle
	ShapeAsymmetric
	ShapeRhombus
	ShapeHexagon
	ShapeParallelogram
	ShapeParallelogramAlt
	ShapeTrapezoid
	ShapeTrapezoidAlt
	ShapeDoubleCircle
)

var shapeEnum = &enum[Shape]{
	what: "node shape",
	names: []string{
		"rectangle", "rounded", "stadium", "subroutine", "cylinder", "circle",
		"asymmetric", "rhombus", "hexagon", "parallelogram", "parallelogram-alt",
		"trapezoid", "trapezoid-alt", "double-circle",
	},
	aliases: map[string]Shape{
		"rect":         ShapeRectangle,
		"round":        ShapeRounded,
		"pill":         ShapeStadium,
		"db":           ShapeCylinder,
		"database":     ShapeCylinder,
		"flag":         ShapeAsymmetric,
		"diamond":      ShapeRhombus,
		"decision":     ShapeRhombus,
		"hex":          ShapeHexagon,
		"para":         ShapeParallelogram,
		"para-alt":     ShapeParallelogramAlt,
		"trap":         ShapeTrapezoid,
		"trap-alt":     ShapeTrapezoidAlt,
		"doublecircle": ShapeDoubleCircle,
	},
}

// shapeWraps holds the opening and closing bracket of each shape.
var shapeWraps = [...][2]string{
	ShapeRectangle:        {"[", "]"},
	ShapeRounded:          {"(", ")"},
	ShapeStadium:          {"([", "])"},
	ShapeSubroutine:       {"[[", "]]"},
	ShapeCylinder:         {"[(", ")]"},
	ShapeCircle:           {"((", "))"},
	ShapeAsymmetric:       {">", "]"},
	ShapeRhombus:          {"{", "}"},
	ShapeHexagon:          {"{{", "}}"},
	ShapeParallelogram:    {"[/", "/]"},
	ShapeParallelogramAlt: {`[\`, `\]`},
	ShapeTrapezoid:        {"[/", `\]`},
	ShapeTrapezoidAlt:     {`[\`, "/]"},
	ShapeDoubleCircle:     {"(((", ")))"},
}

// ParseShape parses a shape name such as "stadium", "db" or "diamond".
func ParseShape(s string) (Shape, error) { return shapeEnum.parse(s) }

func (s Shape) String() string                { return shapeEnum.name(s) }
func (s Shape) MarshalText() ([]byte, error)  { return []byte(s.String()), nil }
func (s *Shape) UnmarshalText(b []byte) error { return shapeEnum.unmarshal(s, b) }

// Wrap returns the label quoted and enclosed in the shape's brackets.
func (s Shape) Wrap(label string) string {
	w := shapeWraps[ShapeRectangle]
	if shapeEnum.valid(s) {
		w = shapeWraps[s]
	}
	return w[0] + quote(label) + w[1]
}

// LinkStyle selects the line of a flowchart link.
type LinkStyle int

const (
	LinkArrow     LinkStyle = iota // -->
	LinkOpen                       // ---
	LinkDotted                     // -.->
	LinkThick                      // ==>
	LinkInvisible                  // ~~~
)

var linkStyleEnum = &enum[LinkStyle]{
	what:  "link style",
	names: []string{"arrow", "open", "dotted", "thick", "invisible"},
	aliases: map[string]LinkStyle{
		"solid":  LinkArrow,
		"line":   LinkOpen,
		"dashed": LinkDotted,
		"bold":   LinkThick,
		"hidden": LinkInvisible,
	},
}

// ParseLinkStyle parses a link style name.
func ParseLinkStyle(s string) (LinkStyle, error) { return linkStyleEnum.parse(s) }

func (l LinkStyle) String() string                { return linkStyleEnum.name(l) }
func (l LinkStyle) MarshalText() ([]byte, error)  { return []byte(l.String()), nil }
func (l *LinkStyle) UnmarshalText(b []byte) error { return linkStyleEnum.unmarshal(l, b) }

// Marker is the decoration at one end of a link.
// MarkerDefault uses the style's own head and no tail.
type Marker int

const (
	MarkerDefault Marker = iota
	MarkerArrow
	MarkerCircle
	MarkerCross
	MarkerNone
)

var markerEnum = &enum[Marker]{
	what:  "link marker",
	names: []string{"default", "arrow", "circle", "cross", "none"},
}

// ParseMarker parses a link marker name.
func ParseMarker(s string) (Marker, error) { return markerEnum.parse(s) }

func (m Marker) String() string                { return markerEnum.name(m) }
func (m Marker) MarshalText() ([]byte, error)  { return []byte(m.String()), nil }
func (m *Marker) UnmarshalText(b []byte) error { return markerEnum.unmarshal(m, b) }

// Node is a flowchart vertex.
type Node struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Shape Shape  `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
	Style Style  `json:"style,omitzero" yaml:"style,omitempty" toml:"style,omitempty"`
}

// label falls back to the id when no label is set.
func (n Node) label() string {
	if n.Label == "" {
		return n.ID
	}
	return n.Label
}

func (n Node) render() string {
	return n.ID + n.Shape.Wrap(n.label())
}

// Link is a flowchart edge between nodes or subgraphs.
type Link struct {
	From  string    `json:"from" yaml:"from" toml:"from"`
	To    string    `json:"to" yaml:"to" toml:"to"`
	Style LinkStyle `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Head  Marker    `json:"head,omitempty" yaml:"head,omitempty" toml:"head,omitempty"`
	Tail  Marker    `json:"tail,omitempty" yaml:"tail,omitempty" toml:"tail,omitempty"`
	Label string    `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// Token returns the link operator, e.g. "-->", "-.-", "<==>" or "o--x".
func (l Link) Token() string {
	if l.Style == LinkInvisible {
		return "~~~"
	}

	head := l.Head
	if head == MarkerDefault {
		head = MarkerArrow
		if l.Style == LinkOpen {
			head = MarkerNone
		}
	}

	var body string
	switch l.Style {
	case LinkDotted:
		body = "-.-"
		if head != MarkerNone {
			body = "-.-" + markerChar(head, false)
		}
	case LinkThick:
		body = "==="
		if head != MarkerNone {
			body = "==" + markerChar(head, false)
		}
	default:
		body = "---"
		if head != MarkerNone {
			body = "--" + markerChar(head, false)
		}
	}
	return markerChar(l.Tail, true) + body
}

func markerChar(m Marker, tail bool) string {
	switch m {
	case MarkerArrow:
		if tail {
			return "<"
		}
		return ">"
	case MarkerCircle:
		return "o"
	case MarkerCross:
		return "x"
	}
	return ""
}

func (l Link) render() string {
	if l.Label == "" {
		return l.From + " " + l.Token() + " " + l.To
	}
	return l.From + " " + l.Token() + "|" + quote(l.Label) + "| " + l.To
}

// Subgraph groups nodes and nested subgraphs.
type Subgraph struct {
	ID        string    `json:"id" yaml:"id" toml:"id"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	Members   []string  `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
}

// ClassDef declares a reusable style class.
type ClassDef struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Style Style  `json:"style" yaml:"style" toml:"style"`
}

// ClassAssignment applies a class to nodes.
type ClassAssignment struct {
	Class string   `json:"class" yaml:"class" toml:"class"`
	Nodes []string `json:"nodes" yaml:"nodes" toml:"nodes"`
}

// LinkStyleDef styles the link at Index (insertion order, zero-based).
type LinkStyleDef struct {
	Index int   `json:"index" yaml:"index" toml:"index"`
	Style Style `json:"style" yaml:"style" toml:"style"`
}

// Flowchart is an immutable flowchart diagram. Create one with [NewFlowchart].
type Flowchart struct {
	meta
	direction  Direction
	nodes      []Node
	links      []Link
	subgraphs  []Subgraph
	classDefs  []ClassDef
	classes    []ClassAssignment
	linkStyles []LinkStyleDef

	parent map[string]string // member id -> enclosing subgraph id
	byID   map[string]int    // subgraph id -> index
}

// FlowchartBuilder accumulates flowchart entities in insertion order.
type FlowchartBuilder struct {
	f Flowchart
}

// NewFlowchart starts a top-to-bottom flowchart.
func NewFlowchart() *FlowchartBuilder {
	return &FlowchartBuilder{f: Flowchart{direction: TopToBottom}}
}

func (b *FlowchartBuilder) Title(title string) *FlowchartBuilder {
	b.f.title = title
	return b
}

func (b *FlowchartBuilder) Config(cfg Config) *FlowchartBuilder {
	b.f.config = &cfg
	return b
}

func (b *FlowchartBuilder) Direction(d Direction) *FlowchartBuilder {
	b.f.direction = d
	return b
}

func (b *FlowchartBuilder) Node(nodes ...Node) *FlowchartBuilder {
	b.f.nodes = append(b.f.nodes, nodes...)
	return b
}

func (b *FlowchartBuilder) Link(links ...Link) *FlowchartBuilder {
	b.f.links = append(b.f.links, links...)
	return b
}

func (b *FlowchartBuilder) Subgraph(sgs ...Subgraph) *FlowchartBuilder {
	for _, sg := range sgs {
		sg.Members = slices.Clone(sg.Members)
		b.f.subgraphs = append(b.f.subgraphs, sg)
	}
	return b
}

func (b *FlowchartBuilder) ClassDef(defs ...ClassDef) *FlowchartBuilder {
	b.f.classDefs = append(b.f.classDefs, defs...)
	return b
}

func (b *FlowchartBuilder) Class(class string, nodes ...string) *FlowchartBuilder {
	b.f.classes = append(b.f.classes, ClassAssignment{Class: class, Nodes: slices.Clone(nodes)})
	return b
}

func (b *FlowchartBuilder) LinkStyle(index int, style Style) *FlowchartBuilder {
	b.f.linkStyles = append(b.f.linkStyles, LinkStyleDef{Index: index, Style: style})
	return b
}

// Build validates the flowchart and returns an immutable copy.
//
// It fails with CONFIG_ERROR when ids are invalid or duplicated, when a link,
// member or class assignment names an undeclared id, when a member belongs to
// more than one subgraph, or when subgraph membership forms a cycle.
func (b *FlowchartBuilder) Build() (*Flowchart, error) {
	f := b.f
	f.nodes = slices.Clone(f.nodes)
	f.links = slices.Clone(f.links)
	f.subgraphs = slices.Clone(f.subgraphs)
	f.classDefs = slices.Clone(f.classDefs)
	f.classes = slices.Clone(f.classes)
	f.linkStyles = slices.Clone(f.linkStyles)

	if err := f.meta.validate(); err != nil {
		return nil, err
	}
	if err := f.direction.validate(); err != nil {
		return nil, err
	}

	declared := make(map[string]string) // id -> "node" | "subgraph"
	for _, n := range f.nodes {
		if err := validateID("node", n.ID); err != nil {
			return nil, err
		}
		if prev, dup := declared[n.ID]; dup {
			return nil, configError("duplicate id %q (already declared as %s)", n.ID, prev)
		}
		declared[n.ID] = "node"
		if err := shapeEnum.check(n.Shape); err != nil {
			return nil, err
		}
		if err := n.Style.validate(); err != nil {
			return nil, err
		}
	}

	f.byID = make(map[string]int, len(f.subgraphs))
	for i, sg := range f.subgraphs {
		if err := validateID("subgraph", sg.ID); err != nil {
			return nil, err
		}
		if prev, dup := declared[sg.ID]; dup {
			return nil, configError("duplicate id %q (already declared as %s)", sg.ID, prev)
		}
		declared[sg.ID] = "subgraph"
		f.byID[sg.ID] = i
		if sg.Direction != "" {
			if err := sg.Direction.validate(); err != nil {
				return nil, err
			}
		}
	}

	if err := f.buildForest(declared); err != nil {
		return nil, err
	}

	for _, l := range f.links {
		for _, end := range []string{l.From, l.To} {
			if _, ok := declared[end]; !ok {
				return nil, configError("link %s -> %s references undeclared id %q", l.From, l.To, end)
			}
		}
		if err := linkStyleEnum.check(l.Style); err != nil {
			return nil, err
		}
		if err := markerEnum.check(l.Head); err != nil {
			return nil, err
		}
		if err := markerEnum.check(l.Tail); err != nil {
			return nil, err
		}
	}

	classes := make(map[string]bool, len(f.classDefs))
	for _, c := range f.classDefs {
		if err := validateID("class", c.Name); err != nil {
			return nil, err
		}
		if classes[c.Name] {
			return nil, configError("duplicate class %q", c.Name)
		}
		classes[c.Name] = true
		if err := c.Style.validate(); err != nil {
			return nil, err
		}
	}
	for _, a := range f.classes {
		if !classes[a.Class] {
			return nil, configError("class %q is not defined", a.Class)
		}
		if len(a.Nodes) == 0 {
			return nil, configError("class %q is assigned to no nodes", a.Class)
		}
		for _, id := range a.Nodes {
			if _, ok := declared[id]; !ok {
				return nil, configError("class %q assigned to undeclared id %q", a.Class, id)
			}
		}
	}
	for _, s := range f.linkStyles {
		if s.Index < 0 || s.Index >= len(f.links) {
			return nil, configError("link style index %d out of range (%d links)", s.Index, len(f.links))
		}
		if err := s.Style.validate(); err != nil {
			return nil, err
		}
	}

	return &f, nil
}

// buildForest records each member's parent and rejects shared members and cycles.
func (f *Flowchart) buildForest(declared map[string]string) error {
	f.parent = make(map[string]string)
	for _, sg := range f.subgraphs {
		for _, m := range sg.Members {
			if _, ok := declared[m]; !ok {
				return configError("subgraph %q contains undeclared id %q", sg.ID, m)
			}
			if m == sg.ID {
				return configError("subgraph %q contains itself", sg.ID)
			}
			if p, ok := f.parent[m]; ok {
				return configError("%q is a member of both subgraph %q and %q", m, p, sg.ID)
			}
			f.parent[m] = sg.ID
		}
	}

	// With a single parent per member, a cycle is a parent chain longer
	// than the number of subgraphs.
	for _, sg := range f.subgraphs {
		cur := sg.ID
		for steps := 0; ; steps++ {
			p, ok := f.parent[cur]
			if !ok {
				break
			}
			if steps >= len(f.subgraphs) {
				return configError("subgraph %q is part of a membership cycle", sg.ID)
			}
			cur = p
		}
	}
	return nil
}

func (*Flowchart) Kind() Kind { return KindFlowchart }

// Direction returns the layout direction.
func (f *Flowchart) Direction() Direction { return f.direction }

// Nodes returns the nodes in insertion order.
func (f *Flowchart) Nodes() []Node { return slices.Clone(f.nodes) }

// Links returns the links in insertion order.
func (f *Flowchart) Links() []Link { return slices.Clone(f.links) }

// Subgraphs returns the subgraphs in insertion order.
func (f *Flowchart) Subgraphs() []Subgraph {
	out := make([]Subgraph, len(f.subgraphs))
	for i, sg := range f.subgraphs {
		sg.Members = slices.Clone(sg.Members)
		out[i] = sg
	}
	return out
}

// ClassDefs returns the class definitions in insertion order.
func (f *Flowchart) ClassDefs() []ClassDef { return slices.Clone(f.classDefs) }

// Classes returns the class assignments in insertion order.
func (f *Flowchart) Classes() []ClassAssignment {
	out := make([]ClassAssignment, len(f.classes))
	for i, a := range f.classes {
		a.Nodes = slices.Clone(a.Nodes)
		out[i] = a
	}
	return out
}

// LinkStyles returns the link style statements in insertion order.
func (f *Flowchart) LinkStyles() []LinkStyleDef { return slices.Clone(f.linkStyles) }

// Parent returns the subgraph directly containing id, if any.
func (f *Flowchart) Parent(id string) (string, bool) {
	p, ok := f.parent[id]
	return p, ok
}

// Render returns the flowchart body. Top-level nodes come first, then
// subgraphs with their members, then links, then styling statements.
func (f *Flowchart) Render() string {
	w := &writer{}
	w.line(0, "flowchart "+string(f.direction))

	nodeByID := make(map[string]Node, len(f.nodes))
	for _, n := range f.nodes {
		nodeByID[n.ID] = n
		if _, nested := f.parent[n.ID]; !nested {
			w.line(0, n.render())
		}
	}
	for _, sg := range f.subgraphs {
		if _, nested := f.parent[sg.ID]; !nested {
			f.renderSubgraph(w, sg, nodeByID, 0)
		}
	}
	for _, l := range f.links {
		w.line(0, l.render())
	}

	for _, n := range f.nodes {
		if !n.Style.IsZero() {
			w.line(0, "style "+n.ID+" "+n.Style.String())
		}
	}
	for _, c := range f.classDefs {
		w.line(0, "classDef "+c.Name+" "+c.Style.String())
	}
	for _, a := range f.classes {
		w.line(0, "class "+strings.Join(a.Nodes, ",")+" "+a.Class)
	}
	for _, s := range f.linkStyles {
		w.line(0, "linkStyle "+strconv.Itoa(s.Index)+" "+s.Style.String())
	}
	return w.String()
}

func (f *Flowchart) renderSubgraph(w *writer, sg Subgraph, nodes map[string]Node, depth int) {
	header := "subgraph " + sg.ID
	if sg.Title != "" {
		header += "[" + quote(sg.Title) + "]"
	}
	w.line(depth, header)
	if sg.Direction != "" {
		w.line(depth+1, "direction "+string(sg.Direction))
	}
	for _, m := range sg.Members {
		if n, ok := nodes[m]; ok {
			w.line(depth+1, n.render())
			continue
		}
		f.renderSubgraph(w, f.subgraphs[f.byID[m]], nodes, depth+1)
	}
	w.line(depth, "end")
}
