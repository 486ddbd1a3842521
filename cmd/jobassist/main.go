package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/telemetry"
)

// rootCmd is the jobassist entry point.
var rootCmd = &cobra.Command{
	Use:   "jobassist",
	Short: "Job-application assistant backend",
	Long: `jobassist serves the résumé, recommendation, application and
notification API and runs its maintenance tasks.

Available subcommands:
  serve   - Run the HTTP API and the orphan sweeper
  migrate - Apply or inspect Postgres migrations
  sweep   - Delete unreferenced résumé blobs once
  token   - Issue a development bearer token`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd, tokenCmd)
}

func main() {
	defer telemetry.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the log level.
func loadConfig() config.Config {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	return cfg
}
