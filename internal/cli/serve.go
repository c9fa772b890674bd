package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/piwi3910/barcut/internal/archive"
	"github.com/piwi3910/barcut/internal/config"
	"github.com/piwi3910/barcut/internal/logger"
	"github.com/piwi3910/barcut/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP planning service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			snap := config.NewSnapshot(a.cfg)
			snap.OnChange(func(c config.Config) {
				logger.SetLevel(c.Log.Level)
				logger.Info("config reloaded", "max_pieces", c.Engine.MaxPieces, "algorithm", c.Engine.Algorithm)
			})
			config.Watch(snap, func(err error) {
				logger.Warn("config reload failed", "err", err)
			})

			var store server.Archive
			if a.cfg.Archive.Enabled {
				s, err := archive.Open(ctx, a.cfg.Archive.Path)
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			srv := server.New(snap, store)
			if err := srv.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "barcut listening on %s\n", srv.Addr())

			<-ctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
