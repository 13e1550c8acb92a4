package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"candle-analyzer/internal/server"
)

var errNoAPIKey = errors.New("no API key configured")

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser UI and HTTP API",
		Example: `  analyzer serve
  analyzer serve --addr 0.0.0.0:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Config.Addr()
			}

			srv := server.NewServer(server.Config{
				Addr:            addr,
				AllowedOrigins:  app.Config.Server.AllowedOrigins,
				DefaultCurrency: app.Config.UI.DefaultCurrency,
				ProductionMode:  true,
			}, server.Deps{
				Renderer:  app.Renderer,
				Favorites: app.Favorites,
				Session:   app.Session,
				Embedder:  app.Embedder,
				Logger:    app.Logger,
			})

			if app.Session == nil {
				output.Warning("No API key configured, explanations are disabled")
			}
			output.Success("Serving on http://%s", addr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}
