package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	mmio "github.com/matzehuels/mermaid/pkg/io"
	"github.com/matzehuels/mermaid/pkg/pipeline"
)

// inputOptions are the input flags shared by the diagram commands. When
// none is set, the diagram is built from the command's own flags.
type inputOptions struct {
	file    string
	stdin   bool
	mermaid string
	title   string
}

func (in *inputOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&in.file, "input", "i", "", "read the diagram from a JSON, YAML or TOML file")
	fs.BoolVar(&in.stdin, "stdin", false, "read the diagram document from stdin (JSON or YAML)")
	fs.StringVar(&in.mermaid, "mermaid", "", "raw Mermaid text, passed through unchanged")
	fs.StringVar(&in.title, "title", "", "diagram title")
}

// hasInput reports whether a document or raw text replaces the flags.
func (in *inputOptions) hasInput() bool {
	return in.file != "" || in.stdin || in.mermaid != ""
}

// resolve reads the selected input. Documents are built as kind; cfg and
// the title fill in what the input leaves unset.
func (in *inputOptions) resolve(kind diagram.Kind, stdin io.Reader, cfg *diagram.Config) (pipeline.Input, error) {
	out := pipeline.Input{Kind: kind, Title: in.title, Config: cfg}
	switch {
	case in.file != "":
		if err := errs.ValidatePath(in.file); err != nil {
			return out, err
		}
		format, err := mmio.FormatFromPath(in.file)
		if err != nil {
			return out, err
		}
		data, err := os.ReadFile(in.file)
		if err != nil {
			if os.IsNotExist(err) {
				return out, errs.Wrap(errs.ErrCodeFileNotFound, err, "input file %s not found", in.file)
			}
			return out, errs.Wrap(errs.ErrCodeIO, err, "read %s", in.file)
		}
		out.Document, out.DocumentFormat = data, format
	case in.stdin:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return out, errs.Wrap(errs.ErrCodeIO, err, "read stdin")
		}
		out.Document = data
	case in.mermaid != "":
		out.Mermaid = in.mermaid
		if hasFrontmatter(in.mermaid) {
			out.Title, out.Config = "", nil
		}
	}
	return out, nil
}

// hasFrontmatter reports whether raw Mermaid text opens with its own
// frontmatter block, which then takes the place of flag title and theme.
func hasFrontmatter(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "---")
}
