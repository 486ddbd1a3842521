package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobassist-backend/internal/shared/auth"
)

var (
	tokenEmail string
	tokenName  string
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a development bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if cfg.Env == "production" {
			return errors.New("refusing to issue tokens in production")
		}
		userID := strings.TrimSpace(args[0])
		if userID == "" {
			return errors.New("user id is required")
		}
		signer, err := auth.NewSigner(cfg.JWTSecret, cfg.Env)
		if err != nil {
			return err
		}
		token, err := signer.Sign(userID, tokenEmail, tokenName)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "name claim")
}
