package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/mermaid/pkg/diagram"
	"github.com/matzehuels/mermaid/pkg/render/nodelink"
)

func ExampleToDOT() {
	f, _ := diagram.NewFlowchart().
		Node(diagram.Node{ID: "app"}, diagram.Node{ID: "db", Shape: diagram.ShapeCylinder}).
		Link(diagram.Link{From: "app", To: "db", Label: "query"}).
		Build()

	fmt.Print(nodelink.ToDOT(f, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   compound=true;
	//   bgcolor="transparent";
	//   node [shape=box, style=filled, fillcolor="#ececff", color="#9370db", fontname="Helvetica"];
	//   edge [color="#333333", fontname="Helvetica"];
	//
	//   "app" [label="app", shape=box];
	//   "db" [label="db", shape=cylinder];
	//
	//   "app" -> "db" [label="query"];
	// }
}
