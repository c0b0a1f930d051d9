package catalog

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
)

// CategoriesCmd lists the category translations.
var CategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List category keys and their labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		cat, err := gc.Provider.Catalog()
		if err != nil {
			return err
		}
		ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
		defer cancel()

		labels := cat.Categories.Map(ctx)
		if len(labels) == 0 {
			pterm.Warning.Println("No category labels available")
			return nil
		}

		keys := make([]string, 0, len(labels))
		for k := range labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tLABEL")
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\n", k, labels[k])
		}
		w.Flush()
		return nil
	},
}

// ReviewsCmd shows aggregated ratings of products.
var ReviewsCmd = &cobra.Command{
	Use:   "reviews <product-id>...",
	Short: "Show the average rating of one or more recipes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		cat, err := gc.Provider.Catalog()
		if err != nil {
			return err
		}
		ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
		defer cancel()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tAVERAGE\tCOUNT")
		for _, id := range args {
			stats := cat.Reviews.For(ctx, id)
			fmt.Fprintf(w, "%s\t%.2f\t%d\n", id, stats.RatingAvg, stats.RatingCount)
		}
		w.Flush()
		return nil
	},
}
