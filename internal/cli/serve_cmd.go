package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/tutorlog/internal/api"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var (
		addr   string
		noLogs bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the entry store over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.ListenAddr
			}
			srv := api.NewServer(serverOptions(app, addr, noLogs))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			app.logger().Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from listen_addr)")
	cmd.Flags().BoolVar(&noLogs, "no-request-logs", false, "disable per-request logging")

	return cmd
}

func serverOptions(app *App, addr string, disableReqLogs bool) *api.Options {
	opts := &api.Options{
		Address:        addr,
		DisableReqLogs: disableReqLogs,
		Logger:         app.logger(),
		Entries:        app.Store,
		Profiles:       app.Profiles,
		Now:            app.Now,
	}
	// Leave the interfaces nil rather than holding a typed nil.
	if app.Issuer != nil {
		opts.Authorizer = app.Issuer
		opts.Exchanger = app.Issuer
	}
	return opts
}
