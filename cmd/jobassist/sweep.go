package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobassist-backend/internal/bootstrap"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete unreferenced résumé blobs once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		app, err := bootstrap.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Sweeper.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "users=%d scanned=%d deleted=%d failed=%d\n", res.Users, res.Scanned, res.Deleted, res.Failed)
		return nil
	},
}
