package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from cooked",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		id, err := gc.Provider.Identity()
		if err != nil {
			return fmt.Errorf("failed to create credential store: %w", err)
		}

		if err := id.Logout(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Logged out successfully")
		return nil
	},
}
