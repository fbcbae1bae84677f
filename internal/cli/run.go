package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	"github.com/matzehuels/mermaid/pkg/pipeline"
)

// buildFunc builds a diagram from a command's own flags.
type buildFunc func(title string, cfg diagram.Config) (diagram.Diagram, error)

// diagramCommands returns one command per diagram kind.
func (c *CLI) diagramCommands() []*cobra.Command {
	return []*cobra.Command{
		c.flowchartCommand(),
		c.sequenceCommand(),
		c.stateCommand(),
		c.erCommand(),
		c.pieCommand(),
		c.mindmapCommand(),
		c.journeyCommand(),
		c.requirementCommand(),
	}
}

// diagramCommand adds the input flags to cmd and runs it. build is only
// called when no file, stdin or raw text input is given.
func (c *CLI) diagramCommand(kind diagram.Kind, cmd *cobra.Command, build buildFunc) *cobra.Command {
	var in inputOptions
	in.register(cmd.Flags())
	cmd.Args = cobra.NoArgs
	cmd.MarkFlagsMutuallyExclusive("input", "stdin", "mermaid")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := c.opts.diagramConfig()
		if in.hasInput() {
			input, err := in.resolve(kind, cmd.InOrStdin(), cfg)
			if err != nil {
				return err
			}
			return c.run(cmd, input)
		}
		d, err := build(in.title, *cfg)
		if err != nil {
			return err
		}
		return c.run(cmd, pipeline.Input{Kind: kind, Diagram: d})
	}
	return cmd
}

// run builds and renders input, then writes the result to the selected
// outputs.
func (c *CLI) run(cmd *cobra.Command, input pipeline.Input) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := c.opts.pipelineOptions()
	opts.Logger = logger

	var spinner *Spinner
	if opts.IsImage() {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Format))
		spinner.Start()
	}
	res, err := runner.Run(ctx, input, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	out := newOutput(&c.opts, cmd.OutOrStdout())
	if err := out.write(res); err != nil {
		return err
	}

	if !out.toStdout() {
		printStats(res.Kind.String(), string(res.Format), res.Stats.Size, res.CacheHit)
	}
	prog.done(fmt.Sprintf("Generated %s %s", res.Kind, res.Format))
	return nil
}

// parseSpecs parses every spec string with parse, stopping at the first error.
func parseSpecs[T any](specs []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(specs))
	for _, s := range specs {
		v, err := parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
