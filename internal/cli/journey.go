package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// journeyStep is one --section or --task flag, kept in command-line order.
type journeyStep struct {
	section bool
	value   string
}

// journeyValue is a pflag.Value appending to a slice shared by the section
// and task flags, so tasks land in the section given before them.
type journeyValue struct {
	steps   *[]journeyStep
	section bool
}

func (v journeyValue) String() string {
	var out []string
	for _, s := range *v.steps {
		if s.section == v.section {
			out = append(out, s.value)
		}
	}
	return "[" + strings.Join(out, ",") + "]"
}

func (v journeyValue) Set(s string) error {
	*v.steps = append(*v.steps, journeyStep{section: v.section, value: s})
	return nil
}

func (v journeyValue) Type() string { return "string" }

// journeyCommand creates the journey command.
func (c *CLI) journeyCommand() *cobra.Command {
	var steps []journeyStep

	cmd := &cobra.Command{
		Use:   "journey",
		Short: "Generate a user journey",
		Long: `Generate a user journey from sections and tasks, a document or raw text.
Each --task joins the most recent --section before it.

Task: name:score:actor1,actor2   (score 1-5)`,
		Example: `  mermaid journey --title "My day" --section Morning --task "Make coffee:5:Me" \
      --section Work --task "Meetings:2:Me,Team" --task "Code:4:Me"`,
	}

	fs := cmd.Flags()
	fs.Var(journeyValue{steps: &steps, section: true}, "section", "start a new section")
	fs.Var(journeyValue{steps: &steps}, "task", `add a task "name:score:actors"`)

	return c.diagramCommand(diagram.KindJourney, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		b := diagram.NewJourney().Title(title).Config(cfg)
		for _, s := range steps {
			if s.section {
				b.Section(s.value)
				continue
			}
			t, err := mmio.ParseTaskSpec(s.value)
			if err != nil {
				return nil, err
			}
			b.Task(t.Text, t.Score, t.Actors...)
		}
		return b.Build()
	})
}
