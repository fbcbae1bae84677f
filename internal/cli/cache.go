package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
		Long: `Manage the cache of rendered images. The backend comes from --cache or
$MERMAID_CACHE: a directory, a redis:// or mongodb:// URL, or "none".`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := cache.Open(cmd.Context(), c.opts.cache)
			if err != nil {
				return err
			}
			defer cc.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Clearing cache...")
			spinner.Start()
			count, err := cc.Clear(cmd.Context())
			if err != nil {
				spinner.StopWithError("Could not clear " + cc.Backend() + " cache")
				return err
			}
			if count == 0 {
				spinner.Stop()
				printInfo("Cache is empty")
				return nil
			}
			spinner.StopWithSuccess(fmt.Sprintf("Cleared %d cached entries", count))
			printDetail("Backend: %s", location(cc))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where renders are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := cache.Open(cmd.Context(), c.opts.cache)
			if err != nil {
				return err
			}
			defer cc.Close()
			fmt.Fprintln(cmd.OutOrStdout(), location(cc))
			return nil
		},
	}
}

// location is the directory of a file cache, or the backend name otherwise.
// URLs are not echoed since they may carry credentials.
func location(cc cache.Cache) string {
	if fc, ok := cc.(*cache.FileCache); ok {
		return fc.Dir()
	}
	return cc.Backend()
}
