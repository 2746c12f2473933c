package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsort/pkg/cache"
	"github.com/matzehuels/depsort/pkg/pipeline"
	"github.com/matzehuels/depsort/pkg/server"
)

// serverKeyPrefix keeps server cache entries apart from CLI entries in a
// shared backend.
const serverKeyPrefix = "server:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ordering API over HTTP",
		Long: `Serve the ordering API over HTTP until interrupted.

Endpoints:
  GET  /healthz     liveness and version
  POST /v1/order    order the document in the request body
  POST /v1/cycles   list the circular dependencies of the document
  POST /v1/graph    draw the document as dot, svg or png

Query parameters: format (json, toml, yaml, graph), mode (dependency,
precedence), no_cache, output (graph only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newServerRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger)
			srv.CacheTTL = c.Config.Cache.TTL
			if c.Config.Server.Timeout > 0 {
				srv.Timeout = c.Config.Server.Timeout
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")

	return cmd
}

// newServerRunner creates a pipeline runner whose cache keys carry
// serverKeyPrefix.
func (c *CLI) newServerRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, false)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), serverKeyPrefix)
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}
