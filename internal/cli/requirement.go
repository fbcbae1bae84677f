package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/mermaid/pkg/diagram"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// requirementCommand creates the requirement command.
func (c *CLI) requirementCommand() *cobra.Command {
	var requirements, elements, relations []string

	cmd := &cobra.Command{
		Use:     "requirement",
		Aliases: []string{"req"},
		Short:   "Generate a requirement diagram",
		Long: `Generate a requirement diagram from requirements, elements and relations,
a document or raw text.

Requirement: id:name:text:risk:verify   (risk: low, medium, high;
                                         verify: test, inspection, analysis, demonstration)
Element:     id:type:docref             (type: element, simulation, testCase)
Relation:    from->to:type              (types: contains, copies, derives, satisfies,
                                         verifies, refines, traces)

Relations refer to requirements by name or id.`,
		Example: `  mermaid requirement --requirement "R1:login:Users can log in:high:test" \
      --element "auth:simulation:docs/auth.md" --relationship "auth->login:satisfies"`,
	}

	fs := cmd.Flags()
	fs.StringArrayVar(&requirements, "requirement", nil, `add a requirement "id:name:text:risk:verify"`)
	fs.StringArrayVar(&elements, "element", nil, `add an element "id:type:docref"`)
	fs.StringArrayVar(&relations, "relationship", nil, `add a relation "from->to:type"`)
	fs.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "relation" {
			name = "relationship"
		}
		return pflag.NormalizedName(name)
	})

	return c.diagramCommand(diagram.KindRequirement, cmd, func(title string, cfg diagram.Config) (diagram.Diagram, error) {
		rs, err := parseSpecs(requirements, mmio.ParseRequirementSpec)
		if err != nil {
			return nil, err
		}
		es, err := parseSpecs(elements, mmio.ParseElementSpec)
		if err != nil {
			return nil, err
		}
		rels, err := parseSpecs(relations, mmio.ParseRelationSpec)
		if err != nil {
			return nil, err
		}
		return diagram.NewRequirement().Title(title).Config(cfg).
			Requirement(rs...).Element(es...).Relation(rels...).Build()
	})
}
