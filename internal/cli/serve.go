package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapline/internal/server"
	"github.com/matzehuels/snapline/pkg/buildinfo"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		bind string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Long: `Serve exposes evaluation, analysis and learning endpoints under /api for
one learning profile. Learning data is saved to the configured store
after every change.`,
		Example: `  snapline serve
  snapline serve --port 8080 --profile work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			cfg := ws.cfg
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = bind
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			srv := server.New(ws.engine, ws.store, ws.name,
				server.WithLogger(loggerFromContext(cmd.Context())),
				server.WithVersion(buildinfo.Version),
			)
			printInfo("Serving profile %s on %s", ws.name, StyleHighlight.Render(fmt.Sprintf("http://%s/api", cfg.ListenAddr())))
			return srv.Run(cmd.Context(), cfg.ListenAddr())
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "address to bind (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default from config)")
	return cmd
}
