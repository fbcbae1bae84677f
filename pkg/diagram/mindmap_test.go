package diagram

import (
	"strings"
	"testing"
)

func TestMindmapRender(t *testing.T) {
	m, err := NewMindmap().
		Node(0, "Root").
		Add(MindmapNode{Depth: 1, Label: "Ideas", Shape: MindmapCircle, Icon: "fa fa-book"}).
		Node(2, "Detail (draft)").
		Add(MindmapNode{Depth: 1, Label: "Risks", Shape: MindmapBang, Class: "urgent"}).
		Build()
	m = mustBuild(t, m, err)

	want := strings.Join([]string{
		"mindmap",
		"  Root",
		"    n1((Ideas))",
		"      ::icon(fa fa-book)",
		"      Detail #40;draft#41;",
		"    n3))Risks((",
		"      :::urgent",
	}, "\n")
	if got := m.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestMindmapTree(t *testing.T) {
	tree := MindmapTree{
		Label: "Go",
		Shape: MindmapSquare,
		Children: []MindmapTree{
			{Label: "Tooling", Children: []MindmapTree{{Label: "gofmt"}}},
			{Label: "Runtime", Shape: MindmapHexagon},
		},
	}
	m, err := NewMindmap().Tree(tree).Build()
	m = mustBuild(t, m, err)

	var depths []int
	for _, n := range m.Nodes() {
		depths = append(depths, n.Depth)
	}
	if got, want := depths, []int{0, 1, 2, 1}; !equalInts(got, want) {
		t.Errorf("depths = %v, want %v", got, want)
	}

	want := "mindmap\n  n0[Go]\n    Tooling\n      gofmt\n    n3{{Runtime}}"
	if got := m.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestMindmapDepthInvariant(t *testing.T) {
	tests := []struct {
		name   string
		depths []int
		ok     bool
	}{
		{"SkipsLevel", []int{0, 1, 3}, false},
		{"NoRoot", nil, false},
		{"RootNotZero", []int{1}, false},
		{"SecondRoot", []int{0, 1, 0}, false},
		{"Negative", []int{0, -1}, false},
		{"Climbs", []int{0, 1, 2, 3, 1, 2}, true},
		{"Flat", []int{0, 1, 1, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMindmap()
			for _, d := range tt.depths {
				b.Node(d, "n")
			}
			_, err := b.Build()
			if tt.ok {
				if err != nil {
					t.Errorf("Build(%v) error = %v", tt.depths, err)
				}
				return
			}
			wantConfigError(t, err)
		})
	}
}

func TestMindmapNodeAfterShallowerAncestor(t *testing.T) {
	m, err := NewMindmap().Node(0, "r").Node(1, "a").Node(2, "b").Node(1, "c").Node(2, "d").Build()
	m = mustBuild(t, m, err)

	nodes := m.Nodes()
	for i, n := range nodes {
		if n.Depth < 2 {
			continue
		}
		found := false
		for _, prev := range nodes[:i] {
			if prev.Depth <= 1 {
				found = true
			}
		}
		if !found {
			t.Errorf("node %d at depth %d has no earlier node at depth <= 1", i, n.Depth)
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
