package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := provideConfig(configPath)
		if err != nil {
			return err
		}
		logger := provideLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := InitializeApp(ctx, cfg, logger)
		if err != nil {
			return err
		}

		return app.Serve(ctx, shutdownTimeout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
