package recipe

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

var getServings int

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a recipe, optionally scaled to a number of servings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, s, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		r, err := s.client.GetRecipe(ctx, sdk.ID(args[0]))
		if err != nil {
			return err
		}

		factor := 1.0
		servings := r.Servings
		if getServings > 0 && r.Servings > 0 {
			factor = float64(getServings) / float64(r.Servings)
			servings = getServings
		}

		pterm.DefaultSection.Println(r.Name)
		if r.Description != "" {
			fmt.Println(r.Description)
		}
		stats := s.catalog.Reviews.For(ctx, r.ID.String())
		pterm.Info.Printf("Categories: %s\n", strings.Join(s.catalog.Categories.Labels(ctx, r.Category), ", "))
		pterm.Info.Printf("Rating: %s\n", formatRating(stats))
		if servings > 0 {
			pterm.Info.Printf("Servings: %d\n", servings)
		}
		if r.Duration > 0 {
			pterm.Info.Printf("Duration: %d min\n", r.Duration)
		}
		if img := sdk.ResolveImageURL(r.ImageURL, s.baseURL); img != "" {
			pterm.Info.Printf("Image: %s\n", img)
		}

		if len(r.Ingredients) > 0 {
			pterm.DefaultSection.WithLevel(2).Println("Ingredients")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, ing := range r.Ingredients {
				fmt.Fprintf(w, "%s\t%s\n", sdk.ScaleIngredientAmount(ing.Amount, factor), ing.Name)
			}
			w.Flush()
		}

		if len(r.Instructions) > 0 {
			pterm.DefaultSection.WithLevel(2).Println("Instructions")
			for i, step := range r.Instructions {
				fmt.Printf("%d. %s\n", i+1, step)
			}
		}
		return nil
	},
}

func init() {
	getCmd.Flags().IntVar(&getServings, "servings", 0, "Scale ingredient amounts to this many servings")
}
