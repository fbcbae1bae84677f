package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/pipeline"
)

// renderCommand creates the render command for raw Mermaid text of any
// diagram type, including ones without a builder (gantt, class, ...).
func (c *CLI) renderCommand() *cobra.Command {
	var (
		stdin   bool
		mermaid string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render raw Mermaid text",
		Long: `Render raw Mermaid text from a file, stdin or the --mermaid flag.
The text is passed through unchanged. --title and the theme are added as
frontmatter unless the text has its own.`,
		Example: `  mermaid render diagram.mmd -o diagram.svg
  echo "graph LR; A-->B" | mermaid render --stdin -f png -o ab.png
  mermaid render -m "pie title Pets
    \"Dogs\" : 3
    \"Cats\" : 2" --open`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			text, err := readRaw(file, stdin, mermaid, cmd.InOrStdin())
			if err != nil {
				return err
			}

			input := pipeline.Input{Mermaid: text}
			if !hasFrontmatter(text) {
				input.Title, input.Config = title, c.opts.diagramConfig()
			}
			loggerFromContext(cmd.Context()).Debug("detected diagram", "kind", diagram.DetectKind(text))
			return c.run(cmd, input)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&stdin, "stdin", false, "read Mermaid text from stdin")
	fs.StringVarP(&mermaid, "mermaid", "m", "", "Mermaid text")
	fs.StringVar(&title, "title", "", "diagram title")

	return cmd
}

// readRaw returns the Mermaid text from exactly one of file, stdin and
// text.
func readRaw(file string, stdin bool, text string, r io.Reader) (string, error) {
	n := 0
	for _, set := range []bool{file != "", stdin, text != ""} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return "", errs.New(errs.ErrCodeInvalidInput, "no input: give a file, --stdin or --mermaid")
	case n > 1:
		return "", errs.New(errs.ErrCodeInvalidInput, "give only one of a file, --stdin or --mermaid")
	}

	switch {
	case file != "":
		if err := errs.ValidatePath(file); err != nil {
			return "", err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "input file %s not found", file)
			}
			return "", errs.Wrap(errs.ErrCodeIO, err, "read %s", file)
		}
		return string(data), nil
	case stdin:
		data, err := io.ReadAll(r)
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeIO, err, "read stdin")
		}
		return string(data), nil
	}
	return text, nil
}
