package recipe

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

var (
	createDescription  string
	createCategories   []string
	createImageURL     string
	createServings     int
	createDuration     int
	createIngredients  []string
	createInstructions []string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a recipe",
	Long: `Creates a recipe owned by the signed-in user.

Ingredients are given as "amount:name", e.g. --ingredient "200g:Mehl".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ingredients, err := parseIngredients(createIngredients)
		if err != nil {
			return err
		}

		ctx, cancel, s, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		created, err := s.client.CreateRecipe(ctx, sdk.Recipe{
			Name:         args[0],
			Description:  createDescription,
			Category:     createCategories,
			ImageURL:     createImageURL,
			Servings:     createServings,
			Duration:     createDuration,
			Ingredients:  ingredients,
			Instructions: createInstructions,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Created recipe %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your recipes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, s, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		if err := s.client.DeleteRecipe(ctx, sdk.ID(args[0])); err != nil {
			return err
		}
		s.catalog.Reviews.Invalidate(args[0])
		pterm.Success.Printf("Deleted recipe %s\n", args[0])
		return nil
	},
}

func parseIngredients(values []string) ([]sdk.Ingredient, error) {
	out := make([]sdk.Ingredient, 0, len(values))
	for _, v := range values {
		amount, name, ok := strings.Cut(v, ":")
		if !ok {
			name, amount = amount, ""
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid ingredient %q: name is required", v)
		}
		out = append(out, sdk.Ingredient{Name: name, Amount: strings.TrimSpace(amount)})
	}
	return out, nil
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createDescription, "description", "", "Short description")
	f.StringSliceVar(&createCategories, "category", nil, "Category key, e.g. MAIN_COURSE (repeatable)")
	f.StringVar(&createImageURL, "image-url", "", "Image URL")
	f.IntVar(&createServings, "servings", 0, "Number of servings")
	f.IntVar(&createDuration, "duration", 0, "Preparation time in minutes")
	f.StringArrayVar(&createIngredients, "ingredient", nil, `Ingredient as "amount:name" (repeatable)`)
	f.StringArrayVar(&createInstructions, "step", nil, "Instruction step (repeatable)")
}
