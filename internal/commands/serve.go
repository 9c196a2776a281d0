package commands

import (
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(rt *runtime) *cobra.Command {
	var host, static string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API and web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("static") {
				cfg.Server.StaticDir = static
			}

			h := &api.Handler{
				Extractor: rt.newEngine(),
				Logger:    rt.logger,
				StaticDir: cfg.Server.StaticDir,
			}
			if cfg.Observability.MetricsEnabled {
				h.Metrics = metrics.New()
			}
			app := api.NewApp(h, cfg.Server.MaxUploadMB)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
			go func() {
				rt.logger.Info("server listening", "addr", addr, "static", cfg.Server.StaticDir, "metrics", cfg.Observability.MetricsEnabled)
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server stopped: %w", err)
			case <-ctx.Done():
			}

			rt.logger.Info("shutting down")
			return app.ShutdownWithTimeout(shutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "listen host")
	cmd.Flags().IntVar(&port, "port", 8080, "listen port")
	cmd.Flags().StringVar(&static, "static", "", "directory of the built web UI to serve")

	return cmd
}
