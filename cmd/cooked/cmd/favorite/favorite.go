package favorite

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
	"github.com/htwg-in-schneider/frontend-cooked/internal/catalog"
	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// FavoriteCmd is the parent command for favorites
var FavoriteCmd = &cobra.Command{
	Use:     "favorite",
	Aliases: []string{"favorites", "fav"},
	Short:   "Manage favorite recipes",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, client, _, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		recipes, err := client.Favorites(ctx)
		if err != nil {
			return fmt.Errorf("failed to load favorites: %w", err)
		}
		if len(recipes) == 0 {
			pterm.Info.Println("No favorites yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, r := range recipes {
			fmt.Fprintf(w, "%s\t%s\n", r.ID, r.Name)
		}
		w.Flush()
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <recipe-id>",
	Short: "Mark a recipe as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, _, favs, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		ids, err := favs.Add(ctx, sdk.ID(args[0]))
		if err != nil {
			return err
		}
		pterm.Success.Printf("Added %s, %d favorites\n", args[0], len(ids))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <recipe-id>",
	Short: "Unmark a favorite recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, _, favs, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		ok, err := favs.Contains(ctx, sdk.ID(args[0]))
		if err != nil {
			return err
		}
		if !ok {
			pterm.Warning.Printf("%s is not a favorite\n", args[0])
			return nil
		}
		ids, err := favs.Remove(ctx, sdk.ID(args[0]))
		if err != nil {
			return err
		}
		pterm.Success.Printf("Removed %s, %d favorites left\n", args[0], len(ids))
		return nil
	},
}

func open(cmd *cobra.Command) (context.Context, context.CancelFunc, *sdk.Client, *catalog.Favorites, error) {
	gc := config.MustFromContext(cmd.Context())
	client, err := gc.Provider.Client()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cat, err := gc.Provider.Catalog()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
	return ctx, cancel, client, cat.Favorites, nil
}

func init() {
	FavoriteCmd.AddCommand(listCmd)
	FavoriteCmd.AddCommand(addCmd)
	FavoriteCmd.AddCommand(removeCmd)
}
