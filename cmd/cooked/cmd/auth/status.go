package auth

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
	"github.com/htwg-in-schneider/frontend-cooked/internal/identity"
	"github.com/htwg-in-schneider/frontend-cooked/internal/profile"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status and profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		id, err := gc.Provider.Identity()
		if err != nil {
			return fmt.Errorf("failed to create credential store: %w", err)
		}

		creds, err := id.Credentials()
		if err != nil {
			if errors.Is(err, identity.ErrNotLoggedIn) {
				return fmt.Errorf("not logged in\n\nPlease run 'cooked auth login' first")
			}
			return err
		}

		pterm.DefaultSection.Println("Authentication Status")
		if creds.ExpiresAt.IsZero() {
			pterm.Info.Println("Logged in with a token without expiry")
		} else {
			pterm.Info.Printf("Logged in with token expiring at: %s\n", creds.ExpiresAt.Format(time.RFC1123))
		}
		if creds.IsExpired() {
			if creds.CanRefresh() {
				pterm.Warning.Println("Access token expired; it will be refreshed on next use")
			} else {
				return fmt.Errorf("access token has expired\n\nPlease run 'cooked auth login' to refresh your credentials")
			}
		}

		client, err := gc.Provider.Client()
		if err != nil {
			return err
		}
		ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
		defer cancel()

		p, err := profile.NewResolver(client).Resolve(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to resolve profile: %w", err)
		}

		pterm.DefaultSection.Println("Profile")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
		role := string(p.Role)
		if role == "" {
			role = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dash(p.ID), dash(p.Name), dash(p.Email), role)
		w.Flush()

		if len(p.Extra) > 0 {
			keys := make([]string, 0, len(p.Extra))
			for k := range p.Extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				pterm.Info.Printf("%s: %v\n", k, p.Extra[k])
			}
		}
		return nil
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
