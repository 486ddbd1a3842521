package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jobassist-backend/internal/shared/storage/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect Postgres migrations",
	Long: `Manage the Postgres schema.

Available subcommands:
  up     - Apply all pending migrations (default)
  down   - Roll back the most recent migration
  status - Print the current schema version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), db.RunMigrations)
	},
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), db.RunMigrations)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), db.RollbackMigration)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, database *sql.DB) error {
					version, err := db.MigrationVersion(ctx, database)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
					return nil
				})
			},
		},
	)
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	cfg := loadConfig()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()
	return fn(ctx, sqlDB)
}
