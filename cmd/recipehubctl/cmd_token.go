package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/recipehub/recipehub-server/internal/auth"
)

type tokenOptions struct {
	userID   string
	email    string
	name     string
	duration time.Duration
}

func newTokenCmd(global *globalOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		Long: `Issue a PASETO access token signed with the server key, for local
development and scripted clients. The key is generated if it does not exist.`,
		Example: "  recipehubctl token --user user-1 --email ada@example.com --name Ada",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.userID, "user", "", "User ID (token subject)")
	cmd.Flags().StringVar(&opts.email, "email", "", "User email")
	cmd.Flags().StringVar(&opts.name, "name", "", "Display name")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Token lifetime (default: ACCESS_TOKEN_DURATION)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runToken(cmd *cobra.Command, global *globalOptions, opts *tokenOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return err
	}

	duration := opts.duration
	if duration <= 0 {
		duration = cfg.Auth.AccessTokenDuration
	}

	tokens, err := auth.NewTokenService(key, duration)
	if err != nil {
		return err
	}

	token, err := tokens.Issue(auth.Identity{
		UserID: opts.userID,
		Email:  opts.email,
		Name:   opts.name,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
