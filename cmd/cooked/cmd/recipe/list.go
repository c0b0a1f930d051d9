package recipe

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

var listName string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the public recipe catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, s, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		recipes, err := s.client.ListRecipes(ctx, sdk.RecipeFilter{Name: listName})
		if err != nil {
			return err
		}
		if len(recipes) == 0 {
			pterm.Info.Println("No recipes found")
			return nil
		}
		writeTable(ctx, os.Stdout, s, recipes)
		return nil
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, s, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		recipes, err := s.client.MyRecipes(ctx)
		if err != nil {
			return err
		}
		if len(recipes) == 0 {
			fmt.Println("You have not created any recipes yet")
			return nil
		}
		writeTable(ctx, os.Stdout, s, recipes)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listName, "name", "", "Filter recipes by name")
}
