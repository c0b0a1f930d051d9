package auth

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to cooked",
	Long: `Signs in through the configured OIDC provider.

Two methods are supported:
1. Interactive Login (default): device authorization flow for human users.
2. Service Account Login: set oidc.client_secret (COOKED_OIDC_CLIENT_SECRET)
   to use the client credentials grant, e.g. in CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		if !gc.Config.OIDC.Enabled() {
			return fmt.Errorf("login is not configured: set oidc.issuer and oidc.client_id")
		}

		id, err := gc.Provider.Identity()
		if err != nil {
			return fmt.Errorf("failed to create credential store: %w", err)
		}

		creds, err := id.Login(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("------------------------------------------------------------")
		pterm.Success.Println("Login successful!")
		if creds.Subject != "" {
			pterm.Info.Printf("Authenticated as: %s %s\n", creds.Subject, creds.Email)
		}
		if !creds.ExpiresAt.IsZero() {
			pterm.Info.Printf("Token expires at: %s\n", creds.ExpiresAt.Format(time.RFC1123))
		}
		return nil
	},
}
