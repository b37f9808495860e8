package main

import (
	"os"
	"os/signal"

	"github.com/pocketprof/profreplay/pkg/log"
	"github.com/pocketprof/profreplay/pkg/srv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ProfReplay services",
	Long:  `Initializes and starts the HTTP API, the tutoring websocket endpoint and background workers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting profreplay")

		services := NewServices(ctx)

		// Registered last so the farewell message and the buffered log output
		// flush after every other service has shut down.
		services = append(services, srv.NewCleanup(func() error {
			logger.Info().Msg("profreplay has been shut down gracefully")
			flushLog()
			return nil
		}))

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
