package main

import (
	"context"
	"os"

	"github.com/pocketprof/profreplay/internal/config"
	"github.com/pocketprof/profreplay/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "profreplay",
	Short: "ProfReplay — an AI lecture tutor",
	Long:  `ProfReplay turns recorded lectures into interactive tutoring sessions.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
