package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/internal/server"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

const (
	envAddr         = "MERMAID_ADDR"
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command, which exposes the pipeline over
// HTTP. The global --engine, --server, --cache and size flags become the
// server defaults.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram API over HTTP",
		Long: `Serve the diagram API over HTTP:

  GET  /healthz              liveness and version
  POST /v1/{kind}/script     document in, Mermaid script out
  POST /v1/{kind}/render     document in, SVG or PNG out (?format=png&width=...)
  POST /v1/raw/render        raw Mermaid text in, SVG or PNG out`,
		Example: `  mermaid serve --addr :8080 --cache redis://localhost:6379/0
  curl -X POST --data-binary @pets.json -H 'Content-Type: application/json' \
      'localhost:8080/v1/pie/render?format=png' > pets.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr(envAddr, defaultAddr), "listen address (env "+envAddr+")")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains open
// requests.
func (c *CLI) serve(ctx context.Context, addr string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	defaults := c.opts.pipelineOptions()
	defaults.Background = ""
	if err := defaults.ValidateAndSetDefaults(); err != nil {
		return err
	}

	logger := c.Logger.WithPrefix("http")
	srv := &http.Server{
		Handler:           server.New(runner, defaults, logger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errs.Wrap(errs.ErrCodeNetwork, err, "listen on %s", addr)
	}
	printSuccess("Listening on http://%s", ln.Addr())
	printKeyValue("Engine", defaults.Engine)
	printKeyValue("Cache", runner.Cache.Backend())
	printKeyValue("Format", string(defaults.Format))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errs.Wrap(errs.ErrCodeNetwork, err, "serve")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "shutdown")
	}
	return nil
}
