package diagram

import (
	"slices"
	"strconv"
	"strings"
)

// MindmapShape is the outline drawn around a mindmap node.
type MindmapShape int

const (
	MindmapDefault MindmapShape = iota
	MindmapSquare
	MindmapRounded
	MindmapCircle
	MindmapBang
	MindmapCloud
	MindmapHexagon
)

var mindmapShapeEnum = &enum[MindmapShape]{
	what:  "mindmap shape",
	names: []string{"default", "square", "rounded", "circle", "bang", "cloud", "hexagon"},
	aliases: map[string]MindmapShape{
		"plain":     MindmapDefault,
		"rect":      MindmapSquare,
		"explosion": MindmapBang,
	},
}

// ParseMindmapShape parses a mindmap shape name.
func ParseMindmapShape(s string) (MindmapShape, error) { return mindmapShapeEnum.parse(s) }

func (s MindmapShape) String() string                { return mindmapShapeEnum.name(s) }
func (s MindmapShape) MarshalText() ([]byte, error)  { return []byte(s.String()), nil }
func (s *MindmapShape) UnmarshalText(b []byte) error { return mindmapShapeEnum.unmarshal(s, b) }

var mindmapWraps = [...][2]string{
	MindmapDefault: {"", ""},
	MindmapSquare:  {"[", "]"},
	MindmapRounded: {"(", ")"},
	MindmapCircle:  {"((", "))"},
	MindmapBang:    {"))", "(("},
	MindmapCloud:   {")", "("},
	MindmapHexagon: {"{{", "}}"},
}

// MindmapNode is one entry of the flattened mindmap outline.
type MindmapNode struct {
	Depth int
	Label string
	Shape MindmapShape
	Icon  string
	Class string
}

// MindmapTree is the nested form of a mindmap, as written in documents.
type MindmapTree struct {
	Label    string        `json:"text" yaml:"text" toml:"text"`
	Shape    MindmapShape  `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
	Icon     string        `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Class    string        `json:"class,omitempty" yaml:"class,omitempty" toml:"class,omitempty"`
	Children []MindmapTree `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Flatten lists t and its descendants depth first, starting at depth.
func (t MindmapTree) Flatten(depth int) []MindmapNode {
	out := []MindmapNode{{Depth: depth, Label: t.Label, Shape: t.Shape, Icon: t.Icon, Class: t.Class}}
	for _, c := range t.Children {
		out = append(out, c.Flatten(depth+1)...)
	}
	return out
}

// Mindmap is an immutable mindmap. Create one with [NewMindmap].
type Mindmap struct {
	meta
	nodes []MindmapNode
}

// MindmapBuilder accumulates nodes in outline order.
type MindmapBuilder struct {
	m Mindmap
}

// NewMindmap starts an empty mindmap.
func NewMindmap() *MindmapBuilder {
	return &MindmapBuilder{}
}

func (b *MindmapBuilder) Title(title string) *MindmapBuilder {
	b.m.title = title
	return b
}

func (b *MindmapBuilder) Config(cfg Config) *MindmapBuilder {
	b.m.config = &cfg
	return b
}

// Node appends a node at the given depth with the default shape.
func (b *MindmapBuilder) Node(depth int, label string) *MindmapBuilder {
	b.m.nodes = append(b.m.nodes, MindmapNode{Depth: depth, Label: label})
	return b
}

func (b *MindmapBuilder) Add(nodes ...MindmapNode) *MindmapBuilder {
	b.m.nodes = append(b.m.nodes, nodes...)
	return b
}

// Tree appends the flattened tree, rooted at depth 0.
func (b *MindmapBuilder) Tree(t MindmapTree) *MindmapBuilder {
	b.m.nodes = append(b.m.nodes, t.Flatten(0)...)
	return b
}

// Build checks the outline: the first node is the only one at depth 0 and
// no node is more than one level deeper than the node before it.
func (b *MindmapBuilder) Build() (*Mindmap, error) {
	m := b.m
	m.nodes = slices.Clone(m.nodes)

	if err := m.meta.validate(); err != nil {
		return nil, err
	}
	if len(m.nodes) == 0 {
		return nil, configError("mindmap has no root node")
	}
	prev := -1
	for i, n := range m.nodes {
		switch {
		case n.Depth < 0:
			return nil, configError("mindmap node %d has negative depth %d", i, n.Depth)
		case i == 0 && n.Depth != 0:
			return nil, configError("mindmap root must have depth 0, got %d", n.Depth)
		case i > 0 && n.Depth == 0:
			return nil, configError("mindmap node %d (%q) is a second root", i, n.Label)
		case n.Depth > prev+1:
			return nil, configError("mindmap node %d (%q) skips from depth %d to %d", i, n.Label, prev, n.Depth)
		}
		if strings.TrimSpace(n.Label) == "" {
			return nil, configError("mindmap node %d has an empty label", i)
		}
		if err := mindmapShapeEnum.check(n.Shape); err != nil {
			return nil, err
		}
		if strings.ContainsAny(n.Icon, "()\r\n") {
			return nil, configError("mindmap node %d has invalid icon %q", i, n.Icon)
		}
		if strings.ContainsAny(n.Class, "\r\n") {
			return nil, configError("mindmap node %d has invalid class %q", i, n.Class)
		}
		prev = n.Depth
	}
	return &m, nil
}

func (*Mindmap) Kind() Kind { return KindMindmap }

func (m *Mindmap) Nodes() []MindmapNode { return slices.Clone(m.nodes) }

// Render indents each node depth+1 levels below the header. Shaped nodes
// need an id in front of the bracket, so they get "n" plus their position.
func (m *Mindmap) Render() string {
	w := &writer{}
	w.line(0, "mindmap")
	for i, n := range m.nodes {
		depth := n.Depth + 1
		text := bare(n.Label)
		if n.Shape != MindmapDefault {
			wrap := mindmapWraps[n.Shape]
			text = "n" + strconv.Itoa(i) + wrap[0] + text + wrap[1]
		}
		w.line(depth, text)
		if n.Icon != "" {
			w.line(depth+1, "::icon("+n.Icon+")")
		}
		if n.Class != "" {
			w.line(depth+1, ":::"+n.Class)
		}
	}
	return w.String()
}
