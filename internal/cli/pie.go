package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// pieCommand creates the pie command.
func (c *CLI) pieCommand() *cobra.Command {
	var (
		data     []string
		showData bool
	)

	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Generate a pie chart",
		Long: `Generate a pie chart from "label:value" slices, a document or raw text.
The value follows the last colon, so labels may contain colons.`,
		Example: `  mermaid pie --title "Browser market share" -d Chrome:65 -d Safari:19 -d Firefox:3 --show-data
  mermaid pie -i pets.json -f png -o pets.png`,
	}

	fs := cmd.Flags()
	fs.StringArrayVarP(&data, "data", "d", nil, `add a slice "label:value"`)
	fs.BoolVar(&showData, "show-data", false, "show slice values")

	return c.diagramCommand(diagram.KindPie, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		slices, err := parseSpecs(data, mmio.ParseSliceSpec)
		if err != nil {
			return nil, err
		}
		return diagram.NewPie().Title(title).Config(cfg).ShowData(showData).Slices(slices...).Build()
	})
}
