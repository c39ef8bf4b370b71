package cli

import (
	"fmt"
	"time"

	"callboard/internal/auth"

	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a resolver token for the resolve endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Auth.Enabled() {
			return fmt.Errorf("RESOLVER_JWT_SECRET is not set")
		}

		token, err := auth.NewTokenManager(cfg.Auth.ResolverSecret).GenerateToken(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "name of the resolver the token is issued to")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}
