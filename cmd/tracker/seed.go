package main

import (
	"os"

	"tracker-backend/internal/seed"
	"tracker-backend/internal/store/factory"
	"tracker-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	seedAPIURL string
	seedLocal  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo team and tasks",
	Long: "Load the demo team and tasks through a running server's API, or with\n" +
		"--local straight into the configured store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedLocal {
			cfg, err := provideConfig(configPath)
			if err != nil {
				return err
			}
			log := provideLogger(cfg)
			store, err := factory.NewStore(cmd.Context(), provideStoreConfig(cfg))
			if err != nil {
				return err
			}
			defer store.Close()
			return seed.NewSeeder(store, log).Run(cmd.Context())
		}

		url := apiURL(cmd, seedAPIURL, "SEED_API_URL")
		return seed.NewClient(url, logger.NewLogger(false)).Seed(cmd.Context())
	},
}

// apiURL prefers an explicit flag, then the environment, then the default.
func apiURL(cmd *cobra.Command, flag, env string) string {
	if cmd.Flags().Changed("api-url") {
		return flag
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return flag
}

func init() {
	seedCmd.Flags().StringVar(&seedAPIURL, "api-url", seed.DefaultAPIURL, "base URL of the tracker API (env SEED_API_URL)")
	seedCmd.Flags().BoolVar(&seedLocal, "local", false, "seed the configured store directly")
	rootCmd.AddCommand(seedCmd)
}
