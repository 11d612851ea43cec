package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mgpai22/capstudio/internal/server"
	"github.com/mgpai22/capstudio/internal/session"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the caption editing HTTP API",
		Long: `Serve the caption editing API. Sessions live in memory and are lost
when the server stops.

Examples:
  capstudio serve
  capstudio serve --host 0.0.0.0 --port 9000`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	cmd.Flags().String("host", "", "Listen host (overrides config)")
	cmd.Flags().Int("port", 0, "Listen port (overrides config)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		a.cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		a.cfg.Server.Port = port
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if !a.verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(a.logger)
	engine := server.NewEngine(server.NewHandler(store, a.logger))

	return server.Run(ctx, a.cfg.Addr(), engine, a.logger)
}
