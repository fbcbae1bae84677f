package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// stateCommand creates the state command. Composite and concurrent states
// need a document.
func (c *CLI) stateCommand() *cobra.Command {
	var (
		states, pseudos, transitions []string
		direction                    string
	)

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Generate a state diagram",
		Long: `Generate a state diagram from state and transition specs, a document or raw text.

State:        id:description
Pseudo state: id:kind   (kinds: choice, fork, join)
Transition:   from->to:label   ([*] marks the start or end)`,
		Example: `  mermaid state --state Idle --state Busy:working --transition "[*]->Idle" --transition Idle->Busy:start
  mermaid state -i door.toml -f mermaid`,
	}

	fs := cmd.Flags()
	fs.StringArrayVar(&states, "state", nil, `add a state "id:description"`)
	fs.StringArrayVar(&pseudos, "pseudo", nil, `add a pseudo state "id:choice|fork|join"`)
	fs.StringArrayVar(&transitions, "transition", nil, `add a transition "from->to:label"`)
	fs.StringVarP(&direction, "direction", "d", "", "layout direction: TB, BT, LR or RL")

	return c.diagramCommand(diagram.KindState, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		ss, err := parseSpecs(states, mmio.ParseStateSpec)
		if err != nil {
			return nil, err
		}
		ps, err := parseSpecs(pseudos, mmio.ParsePseudoSpec)
		if err != nil {
			return nil, err
		}
		ts, err := parseSpecs(transitions, mmio.ParseTransitionSpec)
		if err != nil {
			return nil, err
		}
		b := diagram.NewState().Title(title).Config(cfg).State(ss...).Pseudo(ps...).Transition(ts...)
		if direction != "" {
			dir, err := diagram.ParseDirection(direction)
			if err != nil {
				return nil, err
			}
			b.Direction(dir)
		}
		return b.Build()
	})
}
