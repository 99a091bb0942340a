package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boxlogic/stowplan/internal/server"
	"github.com/boxlogic/stowplan/pkg/config"
	"github.com/boxlogic/stowplan/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stowplan HTTP API",
		Long: `Run the stowplan HTTP API.

Endpoints:

    POST /plan        compute a plan and store it
    GET  /plans       list stored plans
    GET  /plans/{id}  fetch a stored plan with its scene
    GET  /plans/{id}/svg  render a stored plan as SVG
    GET  /healthz     liveness check

Plans are kept in memory unless a MongoDB URI is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := server.New(runner, st,
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		server.WithLogger(c.Logger))

	c.Logger.Info("starting server", "addr", addr, "store", storeKind(cfg))
	return srv.ListenAndServe(ctx, addr)
}

func newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Store.MongoURI != "" {
		return store.NewMongoStore(ctx, cfg.Store.MongoURI)
	}
	return store.NewMemoryStore(), nil
}

func storeKind(cfg config.Config) string {
	if cfg.Store.MongoURI != "" {
		return "mongodb"
	}
	return "memory"
}
