package cli

import (
	"github.com/spf13/cobra"

	"github.com/josz009/folio/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio HTTP API",
		Long: `Serve projects, repositories, the live event feed, the terminal and
prometheus metrics over HTTP until interrupted.

Routes:
  GET  /healthz
  GET  /api/profile
  GET  /api/projects?user=&refresh=
  GET  /api/repos?user=&refresh=
  GET  /api/events?view=
  GET  /api/events/stream?view=   (websocket)
  POST /api/terminal              {"command": "help"}
  GET  /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Server.Listen
			}
			cat, err := c.catalog(cfg)
			if err != nil {
				return err
			}
			client, cc, err := c.newGitHubClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer cc.Close()

			srv, err := server.New(server.Options{
				Username:        cfg.GitHub.User,
				Lister:          client,
				Catalog:         cat,
				Logger:          logger,
				SnapshotTTL:     cfg.Server.SnapshotTTL,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			})
			if err != nil {
				return err
			}

			printInfo("Serving %s on %s", StyleHighlight.Render("@"+cfg.GitHub.User), StyleLink.Render(listen))
			printDetail("GitHub: %s · cache: %s", client.BaseURL(), cacheLabel(cfg.Cache.Backend, c.NoCache))
			if err := srv.ListenAndServe(ctx, listen); err != nil {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, :8080)")

	return cmd
}

func cacheLabel(backend string, disabled bool) string {
	if disabled {
		return "disabled"
	}
	return backend
}
