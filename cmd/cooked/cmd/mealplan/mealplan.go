package mealplan

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// MealPlanCmd is the parent command for the meal plan
var MealPlanCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "Plan meals by day",
}

var (
	addDate     string
	addMeal     string
	addServings int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the meal plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, client, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		entries, err := client.MealPlan(ctx)
		if err != nil {
			return fmt.Errorf("failed to load meal plan: %w", err)
		}
		if len(entries) == 0 {
			pterm.Info.Println("Meal plan is empty")
			return nil
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tMEAL\tRECIPE\tSERVINGS")
		for _, e := range entries {
			meal := e.Meal
			if meal == "" {
				meal = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", e.ID, e.Date, meal, e.RecipeID, e.Servings)
		}
		w.Flush()
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <recipe-id>",
	Short: "Schedule a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := addDate
		if date == "" {
			date = time.Now().Format(time.DateOnly)
		}
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
		}

		ctx, cancel, client, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		entry, err := client.AddMealPlanEntry(ctx, sdk.MealPlanEntry{
			RecipeID: sdk.ID(args[0]),
			Date:     date,
			Meal:     addMeal,
			Servings: addServings,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Planned recipe %s on %s (entry %s)\n", entry.RecipeID, entry.Date, entry.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Remove a meal plan entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, client, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		if err := client.DeleteMealPlanEntry(ctx, sdk.ID(args[0])); err != nil {
			return err
		}
		pterm.Success.Printf("Removed entry %s\n", args[0])
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every meal plan entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, client, err := open(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		if err := client.ClearMealPlan(ctx); err != nil {
			return err
		}
		pterm.Success.Println("Meal plan cleared")
		return nil
	},
}

func open(cmd *cobra.Command) (context.Context, context.CancelFunc, *sdk.Client, error) {
	gc := config.MustFromContext(cmd.Context())
	client, err := gc.Provider.Client()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
	return ctx, cancel, client, nil
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Day as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addMeal, "meal", "", "Meal slot, e.g. BREAKFAST, LUNCH, DINNER")
	addCmd.Flags().IntVar(&addServings, "servings", 0, "Number of servings")

	MealPlanCmd.AddCommand(listCmd)
	MealPlanCmd.AddCommand(addCmd)
	MealPlanCmd.AddCommand(deleteCmd)
	MealPlanCmd.AddCommand(clearCmd)
}
