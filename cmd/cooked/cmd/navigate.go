package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
	"github.com/htwg-in-schneider/frontend-cooked/internal/guard"
	"github.com/htwg-in-schneider/frontend-cooked/internal/routes"
)

var listRoutes bool

var navigateCmd = &cobra.Command{
	Use:   "navigate <path>",
	Short: "Check whether a page can be opened",
	Long: `Runs the navigation guard for a page path such as /admin/users or
/product/42 and reports where the navigation ends up.

Protected pages start the login flow when you are not signed in; afterwards
the navigation continues at the requested page. Non-admins opening an admin
page are redirected to /profile.

Use --list to print every known page and its access requirements.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if listRoutes {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		if listRoutes {
			return printRoutes(gc)
		}

		res, err := gc.Provider.Navigate(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, routes.ErrNotFound) {
				return fmt.Errorf("no page at %s", args[0])
			}
			return err
		}

		for _, hop := range res.Redirects {
			pterm.Warning.Printf("Redirected to %s\n", hop)
		}

		switch res.Verdict.Kind {
		case guard.Proceed:
			pterm.Success.Printf("%s -> %s\n", res.Match.FullPath, res.Match.Route.Name)
			if len(res.Match.Params) > 0 {
				pterm.Info.Printf("Params: %s\n", formatParams(res.Match.Params))
			}
		case guard.RedirectToLogin:
			pterm.Warning.Printf("Login required to open %s\n", res.Verdict.AppState.TargetURL)
		}

		if profile := gc.Provider.Session().Profile(); profile != nil {
			pterm.Info.Printf("Signed in as %s (role %s)\n", displayName(profile.Name, profile.Email, profile.ID), profile.Role)
		}
		return nil
	},
}

func printRoutes(gc *config.GlobalConfig) error {
	nav, err := gc.Provider.Navigator()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tPAGE\tACCESS")
	for _, r := range nav.Routes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Pattern, r.Name, accessLabel(r.Meta))
	}
	return w.Flush()
}

func accessLabel(m routes.Meta) string {
	switch {
	case m.RequiresAdmin:
		return "admin"
	case m.RequiresAuth:
		return "signed in"
	default:
		return "public"
	}
}

func init() {
	navigateCmd.Flags().BoolVar(&listRoutes, "list", false, "List known pages instead of navigating")
}

func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, ", ")
}

func displayName(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return "unknown"
}
