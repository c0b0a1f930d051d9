package recipe

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
	"github.com/htwg-in-schneider/frontend-cooked/internal/catalog"
	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// RecipeCmd is the parent command for recipe operations
var RecipeCmd = &cobra.Command{
	Use:     "recipe",
	Aliases: []string{"recipes"},
	Short:   "Browse and manage recipes",
}

func init() {
	RecipeCmd.AddCommand(listCmd)
	RecipeCmd.AddCommand(getCmd)
	RecipeCmd.AddCommand(mineCmd)
	RecipeCmd.AddCommand(createCmd)
	RecipeCmd.AddCommand(deleteCmd)
}

// session bundles what every recipe command needs.
type session struct {
	client  *sdk.Client
	catalog *catalog.Catalog
	baseURL string
}

func open(cmd *cobra.Command) (context.Context, context.CancelFunc, *session, error) {
	gc := config.MustFromContext(cmd.Context())
	client, err := gc.Provider.Client()
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := gc.Provider.Catalog()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
	return ctx, cancel, &session{client: client, catalog: cat, baseURL: gc.Config.BaseURL}, nil
}

// writeTable prints recipes with translated categories and aggregated
// ratings. Rows are resolved concurrently like cards on a page, so the
// category map is fetched once for all of them.
func writeTable(ctx context.Context, out io.Writer, s *session, recipes []sdk.Recipe) {
	type row struct {
		categories string
		rating     string
	}
	rows := make([]row, len(recipes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, r := range recipes {
		g.Go(func() error {
			categories := strings.Join(s.catalog.Categories.Labels(gctx, r.Category), ", ")
			if categories == "" {
				categories = "-"
			}
			rows[i] = row{categories: categories, rating: formatRating(s.catalog.Reviews.For(gctx, r.ID.String()))}
			return nil
		})
	}
	_ = g.Wait()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORIES\tRATING\tSERVINGS")
	for i, r := range recipes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.Name, rows[i].categories, rows[i].rating, r.Servings)
	}
	w.Flush()
}

func formatRating(stats sdk.ReviewStats) string {
	if stats.RatingCount == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d)", stats.RatingAvg, stats.RatingCount)
}
