package shopping

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// ShoppingCmd is the parent command for the shopping list
var ShoppingCmd = &cobra.Command{
	Use:   "shopping",
	Short: "Tick off shopping list items",
}

var uncheck bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show ticked-off items",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		client, err := gc.Provider.Client()
		if err != nil {
			return err
		}
		ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
		defer cancel()

		checks, err := client.ShoppingChecks(ctx)
		if err != nil {
			return fmt.Errorf("failed to load shopping list: %w", err)
		}
		sort.Slice(checks, func(i, j int) bool { return checks[i].Key < checks[j].Key })

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tCHECKED")
		for _, c := range checks {
			mark := " "
			if c.Checked {
				mark = "x"
			}
			fmt.Fprintf(w, "%s\t[%s]\n", c.Key, mark)
		}
		w.Flush()
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <item>",
	Short: "Tick off an item (use --uncheck to reset it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		client, err := gc.Provider.Client()
		if err != nil {
			return err
		}
		ctx, cancel := app.EnsureTimeout(cmd.Context(), gc.Config.HTTPTimeout)
		defer cancel()

		if err := client.SetShoppingCheck(ctx, sdk.ShoppingCheck{Key: args[0], Checked: !uncheck}); err != nil {
			return err
		}
		if uncheck {
			pterm.Success.Printf("Unchecked %s\n", args[0])
		} else {
			pterm.Success.Printf("Checked %s\n", args[0])
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&uncheck, "uncheck", false, "Reset the item instead of ticking it off")
	ShoppingCmd.AddCommand(listCmd)
	ShoppingCmd.AddCommand(checkCmd)
}
