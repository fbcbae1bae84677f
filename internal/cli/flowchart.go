package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// flowchartCommand creates the flowchart command.
func (c *CLI) flowchartCommand() *cobra.Command {
	var (
		nodes, links, subgraphs    []string
		classDefs, classes, lstyle []string
		direction                  string
	)

	cmd := &cobra.Command{
		Use:     "flowchart",
		Aliases: []string{"graph"},
		Short:   "Generate a flowchart",
		Long: `Generate a flowchart from node and link specs, a document or raw text.

Node:       id:label:shape   (shapes: rectangle, rounded, stadium, subroutine,
                              cylinder, circle, asymmetric, rhombus, hexagon,
                              parallelogram, parallelogram-alt, trapezoid,
                              trapezoid-alt, double-circle)
Link:       from->to:style:label   (styles: arrow, open, dotted, thick, invisible)
Subgraph:   id:title:node1,node2
Class def:  name:css    e.g. hot:fill:#f96,stroke:#333
Class:      name:node1,node2
Link style: index:css   e.g. 0:stroke:#f00,stroke-width:2px`,
		Example: `  mermaid flowchart -n A:Start:stadium -n B:Work -n C:End:stadium -l A->B -l B->C:dotted:done
  mermaid flowchart -i pipeline.yaml -o pipeline.svg
  mermaid flowchart --engine graphviz -n A -n B -l A->B -f png -o ab.png`,
	}

	fs := cmd.Flags()
	fs.StringArrayVarP(&nodes, "node", "n", nil, `add a node "id:label:shape"`)
	fs.StringArrayVarP(&links, "link", "l", nil, `add a link "from->to:style:label"`)
	fs.StringArrayVar(&subgraphs, "subgraph", nil, `add a subgraph "id:title:node1,node2"`)
	fs.StringArrayVar(&classDefs, "class-def", nil, `define a class "name:css"`)
	fs.StringArrayVar(&classes, "class", nil, `assign a class "name:node1,node2"`)
	fs.StringArrayVar(&lstyle, "link-style", nil, `style a link "index:css"`)
	fs.StringVarP(&direction, "direction", "d", "TB", "flow direction: TB, TD, BT, LR or RL")
	complete(cmd, "direction", "TB", "TD", "BT", "LR", "RL")

	return c.diagramCommand(diagram.KindFlowchart, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		dir, err := diagram.ParseDirection(direction)
		if err != nil {
			return nil, err
		}
		ns, err := parseSpecs(nodes, mmio.ParseNodeSpec)
		if err != nil {
			return nil, err
		}
		ls, err := parseSpecs(links, mmio.ParseLinkSpec)
		if err != nil {
			return nil, err
		}
		sgs, err := parseSpecs(subgraphs, mmio.ParseSubgraphSpec)
		if err != nil {
			return nil, err
		}
		defs, err := parseSpecs(classDefs, mmio.ParseClassDefSpec)
		if err != nil {
			return nil, err
		}
		assigns, err := parseSpecs(classes, mmio.ParseClassSpec)
		if err != nil {
			return nil, err
		}
		styles, err := parseSpecs(lstyle, mmio.ParseLinkStyleSpec)
		if err != nil {
			return nil, err
		}

		b := diagram.NewFlowchart().Title(title).Config(cfg).Direction(dir).
			Node(ns...).Link(ls...).Subgraph(sgs...).ClassDef(defs...)
		for _, a := range assigns {
			b.Class(a.Class, a.Nodes...)
		}
		for _, s := range styles {
			b.LinkStyle(s.Index, s.Style)
		}
		return b.Build()
	})
}
