package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sheetsfdw/internal/config"
	mcpserver "sheetsfdw/internal/mcp"
	"sheetsfdw/internal/service"
)

// shutdownGrace bounds how long serve waits for in-flight runs on exit.
const shutdownGrace = 30 * time.Second

func newServeCommand() *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled sync jobs until interrupted",
		Long: `Run every enabled sync job with a cron schedule until interrupted.

The config file is watched and the catalog reloaded when it changes; a file that
fails validation is ignored and the previous catalog stays active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc, err := env.SyncService(service.LogEmitter{Logger: env.Logger})
			if err != nil {
				return err
			}
			svc.RestartSchedules(ctx)

			// New tables may make stored jobs runnable again.
			env.Catalog.OnReload = func(*config.Config) { svc.RestartSchedules(ctx) }
			if !noWatch && env.Config.File != "" {
				if err := env.Catalog.Watch(ctx); err != nil {
					return err
				}
			}

			env.Logger.Info("serving", "scheduled", svc.Scheduled())
			<-ctx.Done()

			env.Logger.Info("shutting down")
			svc.Stop()
			waitCtx, waitCancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer waitCancel()
			svc.WaitRunning(waitCtx)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the catalog when the config file changes")
	return cmd
}

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve foreign tables and sync jobs to an MCP client over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			svc, err := env.SyncService(service.LogEmitter{Logger: env.Logger})
			if err != nil {
				return err
			}
			defer svc.Stop()

			srv := mcpserver.New(mcpserver.Deps{
				Engine: env.Engine,
				Sync:   svc,
				Logger: env.Logger,
			})
			return srv.ServeStdio()
		},
	}
}
