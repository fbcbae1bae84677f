package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// sequenceCommand creates the sequence command. Messages come before notes,
// as flags cannot interleave them; documents can.
func (c *CLI) sequenceCommand() *cobra.Command {
	var (
		actors, participants, messages, notes []string
		autonumber                            bool
	)

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Generate a sequence diagram",
		Long: `Generate a sequence diagram from participant and message specs, a document or raw text.

Actor / participant: id:label
Message:             from->to:type:text   (types: solid-arrow, dotted-arrow, solid,
                                           dotted, solid-cross, dotted-cross,
                                           solid-open, dotted-open)
                     prefix the target with + or - to activate or deactivate it
Note:                position:participants:text   (right-of, left-of, over A,B)`,
		Example: `  mermaid sequence -a u:User -p api:API -m "u->+api::GET /items" -m "api->-u:dotted-arrow:200 OK"
  mermaid sequence --stdin < login.yaml`,
	}

	fs := cmd.Flags()
	fs.StringArrayVarP(&actors, "actor", "a", nil, `add an actor "id:label"`)
	fs.StringArrayVarP(&participants, "participant", "p", nil, `add a participant "id:label"`)
	fs.StringArrayVarP(&messages, "message", "m", nil, `add a message "from->to:type:text"`)
	fs.StringArrayVar(&notes, "note", nil, `add a note "position:participants:text"`)
	fs.BoolVar(&autonumber, "autonumber", false, "number the messages")

	return c.diagramCommand(diagram.KindSequence, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		as, err := parseSpecs(actors, func(s string) (diagram.Participant, error) {
			return mmio.ParseParticipantSpec(s, true)
		})
		if err != nil {
			return nil, err
		}
		ps, err := parseSpecs(participants, func(s string) (diagram.Participant, error) {
			return mmio.ParseParticipantSpec(s, false)
		})
		if err != nil {
			return nil, err
		}
		ms, err := parseSpecs(messages, mmio.ParseMessageSpec)
		if err != nil {
			return nil, err
		}
		ns, err := parseSpecs(notes, mmio.ParseNoteSpec)
		if err != nil {
			return nil, err
		}
		return diagram.NewSequence().Title(title).Config(cfg).Autonumber(autonumber).
			Participant(as...).Participant(ps...).
			Message(ms...).Note(ns...).
			Build()
	})
}
