package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
)

// mindmapCommand creates the mindmap command. Flags build a root with one
// level of children; deeper trees need a document.
func (c *CLI) mindmapCommand() *cobra.Command {
	var (
		root, shape string
		children    []string
	)

	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Generate a mindmap",
		Long: `Generate a mindmap from a root and its children, a document or raw text.

Root shapes: default, square, rounded, circle, bang, cloud, hexagon`,
		Example: `  mermaid mindmap --root Go --shape circle --child Concurrency --child Interfaces --child Tooling
  mermaid mindmap -i ideas.yaml -f svg -o ideas.svg`,
	}

	fs := cmd.Flags()
	fs.StringVar(&root, "root", "Root", "root node text")
	fs.StringVar(&shape, "shape", "default", "root node shape")
	fs.StringArrayVar(&children, "child", nil, "add a child of the root")
	complete(cmd, "shape", "default", "square", "rounded", "circle", "bang", "cloud", "hexagon")

	return c.diagramCommand(diagram.KindMindmap, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		s, err := diagram.ParseMindmapShape(shape)
		if err != nil {
			return nil, err
		}
		b := diagram.NewMindmap().Title(title).Config(cfg).
			Add(diagram.MindmapNode{Depth: 0, Label: root, Shape: s})
		for _, child := range children {
			b.Node(1, child)
		}
		return b.Build()
	})
}
