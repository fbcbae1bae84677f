package cli

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	mmio "github.com/matzehuels/mermaid/pkg/io"
)

// newCommand creates the new command, which writes a starter document.
func (c *CLI) newCommand() *cobra.Command {
	var (
		docFormat string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "new [kind]",
		Short: "Create a starter diagram document",
		Long: `Create a starter JSON, YAML or TOML document for a diagram kind.
Without a kind, an interactive picker is shown. With -o the document is
written to that file (its extension picks the format); otherwise it is
printed in --doc-format.`,
		Example: `  mermaid new flowchart -o pipeline.yaml
  mermaid new pie --doc-format json > pets.json
  mermaid new`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind diagram.Kind
			if len(args) == 1 {
				k, err := diagram.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = k
			} else {
				k, err := pickKind()
				if err != nil {
					return err
				}
				if k == diagram.KindUnknown {
					return nil
				}
				kind = k
			}

			doc, err := mmio.Template(kind)
			if err != nil {
				return err
			}

			path := c.opts.output
			if path == "" {
				format, err := mmio.ParseFormat(docFormat)
				if err != nil {
					return err
				}
				return mmio.WriteDocument(cmd.OutOrStdout(), doc, format)
			}

			if err := errs.ValidatePath(path); err != nil {
				return err
			}
			if _, err := mmio.FormatFromPath(path); err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return errs.Wrap(errs.ErrCodeIO, err, "create %s", dir)
				}
			}
			if err := mmio.ExportDocument(doc, path); err != nil {
				return err
			}

			printSuccess("Created %s document", kind)
			printFile(path)
			printNextStep("Render it", "mermaid "+kind.String()+" -i "+path+" -o "+kind.String()+".svg")
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&docFormat, "doc-format", string(mmio.FormatYAML), "document format when printing: json, yaml or toml")
	fs.BoolVar(&force, "force", false, "overwrite an existing file")
	complete(cmd, "doc-format", string(mmio.FormatJSON), string(mmio.FormatYAML), string(mmio.FormatTOML))

	return cmd
}

// pickKind runs the interactive kind picker. It returns KindUnknown when
// the user quits without choosing.
func pickKind() (diagram.Kind, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stderr.Fd()) {
		printInfo("Diagram kinds:")
		printList(kindNames())
		return diagram.KindUnknown, errs.New(errs.ErrCodeInvalidInput, "no diagram kind given")
	}
	final, err := tea.NewProgram(NewKindListModel(diagram.Kinds), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return diagram.KindUnknown, errs.Wrap(errs.ErrCodeInternal, err, "run picker")
	}
	return final.(KindListModel).Selected, nil
}

func kindNames() []string {
	names := make([]string, len(diagram.Kinds))
	for i, k := range diagram.Kinds {
		names[i] = k.String()
	}
	return names
}
