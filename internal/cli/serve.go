package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port, host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the command surface over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Server.Port = port
			}
			if host != "" {
				a.cfg.Server.Host = host
			}

			backend, err := a.backend()
			if err != nil {
				return err
			}
			defer backend.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(backend, a.version)
			if err := srv.Run(ctx); err != nil {
				return err
			}
			a.logger.Info("Server stopped", zap.String("version", a.version))
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	return cmd
}
