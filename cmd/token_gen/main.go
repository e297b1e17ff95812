package main

import (
	"fmt"
	"os"
	"time"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/config"
	"airport-ops/tarmac/internal/constants"

	"github.com/spf13/cobra"
)

type tokenOptions struct {
	user    string
	role    string
	airport string
	ttl     time.Duration
	secret  string
}

// newRootCommand builds the token_gen command. The signing secret comes from
// --secret or, when empty, from the server configuration.
func newRootCommand() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token_gen",
		Short: "Mint a bearer token for the tarmac API",
		Long: `Mint an HS256 bearer token for an operator.

The token is signed with JWT_SECRET (read from the environment or .env)
unless --secret is given. Regional admins need --airport.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTokenGen(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.user, "user", "", "actor id carried in the token (required)")
	cmd.Flags().StringVar(&opts.role, "role", constants.RoleAdminRegional.String(), "superadmin or admin_regional")
	cmd.Flags().StringVar(&opts.airport, "airport", "", "airport id of a regional admin")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 12*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&opts.secret, "secret", "", "signing secret, overrides JWT_SECRET")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runTokenGen(cmd *cobra.Command, opts *tokenOptions) error {
	if opts.ttl <= 0 {
		return fmt.Errorf("--ttl must be positive, got %s", opts.ttl)
	}

	secret := opts.secret
	if secret == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		secret = cfg.JWTSecret
	}

	token, err := auth.IssueToken([]byte(secret), opts.user, constants.ActorRole(opts.role), opts.airport, opts.ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "token_gen:", err)
		os.Exit(1)
	}
}
