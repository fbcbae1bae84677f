package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// erCommand creates the er command.
func (c *CLI) erCommand() *cobra.Command {
	var entities, relationships []string

	cmd := &cobra.Command{
		Use:   "er",
		Short: "Generate an entity-relationship diagram",
		Long: `Generate an entity-relationship diagram from entity and relationship specs,
a document or raw text.

Entity:       name:attr:type:key,attr:type   (keys: PK, FK, UK; type defaults to string)
Relationship: from->to:type:label   (types: one-to-one, one-to-many, many-to-one,
                                     many-to-many, or 1:1, 1:n, n:1, n:n)`,
		Example: `  mermaid er --entity "CUSTOMER:id:int:PK,name" --entity "ORDER:id:int:PK,customer_id:int:FK" \
      --relationship "CUSTOMER->ORDER:one-to-many:places"`,
	}

	fs := cmd.Flags()
	fs.StringArrayVar(&entities, "entity", nil, `add an entity "name:attr:type:key,..."`)
	fs.StringArrayVar(&relationships, "relationship", nil, `add a relationship "from->to:type:label"`)

	return c.diagramCommand(diagram.KindER, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		es, err := parseSpecs(entities, mmio.ParseEntitySpec)
		if err != nil {
			return nil, err
		}
		rs, err := parseSpecs(relationships, mmio.ParseRelationshipSpec)
		if err != nil {
			return nil, err
		}
		return diagram.NewER().Title(title).Config(cfg).Entity(es...).Relationship(rs...).Build()
	})
}
