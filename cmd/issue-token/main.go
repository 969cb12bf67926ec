package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/octobees/maps-leads/api/internal/auth"
)

var (
	subject string
	scopes  []string
	ttl     time.Duration
	envFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue a bearer token for the maps leads API",
		Long: `Signs an HS256 token with API_TOKEN_SECRET. The API only checks tokens
when API_TOKEN_SECRET is set on the server.`,
		Args: cobra.NoArgs,
		RunE: issueToken,
	}

	rootCmd.Flags().StringVar(&subject, "subject", "", "API consumer the token is issued to (required)")
	rootCmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeGenerateLeads}, "Scopes granted by the token")
	rootCmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to environment file")
	_ = rootCmd.MarkFlagRequired("subject")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func issueToken(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load env file: %v\n", err)
		}
	}

	secret := strings.TrimSpace(os.Getenv("API_TOKEN_SECRET"))
	if secret == "" {
		return errors.New("API_TOKEN_SECRET environment variable not set")
	}

	token, err := auth.NewTokenManager(secret, ttl).GenerateToken(subject, scopes...)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
