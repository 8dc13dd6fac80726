package cliapp

import (
	"time"

	"github.com/spf13/cobra"

	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

type tokenOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (a *App) tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API access token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := authsvc.RequireUserID(userID); err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = a.cfg.Auth.JWTAccessTTL
			}

			jwt := authsvc.NewJWTManager(a.cfg.Auth.JWTSecret, ttl)
			token, expiresAt, err := jwt.GenerateAccessToken(userID, "", role)
			if err != nil {
				return err
			}
			return a.writeJSON(tokenOutput{AccessToken: token, ExpiresAt: expiresAt})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Token subject")
	cmd.Flags().StringVar(&role, "role", "user", "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to auth.jwt_access_ttl)")
	return cmd
}
