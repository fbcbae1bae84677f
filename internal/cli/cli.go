// Package cli implements the mermaid command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/buildinfo"
	"github.com/matzehuels/mermaid/pkg/cache"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/observability"
	"github.com/matzehuels/mermaid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mermaid"

	// envFile is loaded from the working directory before flags are read.
	envFile = ".env"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	opts globalOptions
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// LoadEnv reads .env from the working directory into the environment.
// Variables that are already set are left alone. A missing file is fine.
func LoadEnv() error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrCodeConfig, err, "load %s", envFile)
	}
	return nil
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Generate Mermaid diagrams from flags, documents or raw text",
		Long: `mermaid builds flowchart, sequence, state, ER, pie, mindmap, journey and
requirement diagrams from command-line specs or JSON/YAML/TOML documents,
and renders them to SVG or PNG with mermaid.ink (or Graphviz for flowcharts).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.opts.formatSet = cmd.Flags().Changed("format")
			if err := c.opts.validate(); err != nil {
				return err
			}
			c.applyVerbosity()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.opts.register(root.PersistentFlags())
	registerCompletions(root)

	for _, cmd := range c.diagramCommands() {
		root.AddCommand(cmd)
	}
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// applyVerbosity maps --quiet and --verbose onto the logger. Verbose runs
// also log pipeline, cache and HTTP events.
func (c *CLI) applyVerbosity() {
	quietStatus = c.opts.quiet
	switch {
	case c.opts.quiet:
		c.SetLogLevel(LogError)
	case c.opts.verbose:
		c.SetLogLevel(LogDebug)
		hooks := newLogHooks(c.Logger)
		observability.Install(observability.Hooks{Pipeline: hooks, Cache: hooks, HTTP: hooks})
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the --cache backend.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the --cache backend. An unusable default file cache falls
// back to no caching; an explicit backend that fails is an error.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cc, err := cache.Open(ctx, c.opts.cache)
	if err != nil {
		if c.opts.cache == "" {
			c.Logger.Debug("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	c.Logger.Debug("opened cache", "backend", cc.Backend())
	return cc, nil
}
