package main

import (
	"tracker-backend/internal/seed"
	"tracker-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	probeAPIURL string
	probeName   string
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that a project name round-trips through the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := apiURL(cmd, probeAPIURL, "API_URL")
		return seed.NewClient(url, logger.NewLogger(false)).Probe(cmd.Context(), probeName)
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeAPIURL, "api-url", seed.DefaultAPIURL, "base URL of the tracker API (env API_URL)")
	probeCmd.Flags().StringVar(&probeName, "name", seed.ProbeName, "project name to write and read back")
	rootCmd.AddCommand(probeCmd)
}
