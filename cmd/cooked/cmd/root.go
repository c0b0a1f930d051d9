package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/htwg-in-schneider/frontend-cooked/cmd/cooked/cmd/auth"
	"github.com/htwg-in-schneider/frontend-cooked/cmd/cooked/cmd/catalog"
	"github.com/htwg-in-schneider/frontend-cooked/cmd/cooked/cmd/favorite"
	"github.com/htwg-in-schneider/frontend-cooked/cmd/cooked/cmd/mealplan"
	"github.com/htwg-in-schneider/frontend-cooked/cmd/cooked/cmd/recipe"
	"github.com/htwg-in-schneider/frontend-cooked/cmd/cooked/cmd/shopping"
	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
	"github.com/htwg-in-schneider/frontend-cooked/internal/config"
)

var (
	cfgFile     string
	noBrowser   bool
	logFormat   string
	rootViper   = viper.New()
	errorLogger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "cooked",
	Short: "cooked CLI - recipes, favorites and meal plans",
	Long: `cooked is the command-line client for the cooked recipe service.
Browse the public catalog, manage your own recipes, favorites, meal plan and
shopping list, and check which pages your account may open.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			rootViper.SetConfigFile(cfgFile)
		}
		cfg, err := config.Load(rootViper)
		if err != nil {
			return err
		}

		log := logrus.New()
		log.SetOutput(os.Stderr)
		if cfg.Debug {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
		if logFormat == "json" {
			log.SetFormatter(&logrus.JSONFormatter{})
		}

		provider := app.NewProvider(app.Options{
			APIURL:         cfg.APIURL,
			BaseURL:        cfg.BaseURL,
			Issuer:         cfg.OIDC.Issuer,
			ClientID:       cfg.OIDC.ClientID,
			ClientSecret:   cfg.OIDC.ClientSecret,
			CredentialsDir: cfg.CredentialsDir,
			HTTPTimeout:    cfg.HTTPTimeout,
			ReviewCapacity: cfg.Cache.ReviewCapacity,
			DedupFavorites: cfg.Cache.DedupFavorites,
			Logger:         log,
			Out:            os.Stdout,
			OpenBrowser:    !noBrowser,
		})

		cmd.SetContext(config.InjectConfig(cmd.Context(), &config.GlobalConfig{
			Config:   cfg,
			Provider: provider,
		}))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (YAML, TOML or JSON)")
	flags.String("api-url", "", "Recipe collection URL, e.g. https://api.example.com/api/recipes (env COOKED_API_URL)")
	flags.Bool("debug", false, "Enable debug logging (env COOKED_DEBUG)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&noBrowser, "no-browser", false, "Do not open the browser during device login")

	mustBind("api_url", "api-url")
	mustBind("debug", "debug")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(navigateCmd)
	rootCmd.AddCommand(recipe.RecipeCmd)
	rootCmd.AddCommand(favorite.FavoriteCmd)
	rootCmd.AddCommand(mealplan.MealPlanCmd)
	rootCmd.AddCommand(shopping.ShoppingCmd)
	rootCmd.AddCommand(catalog.CategoriesCmd)
	rootCmd.AddCommand(catalog.ReviewsCmd)
}

func mustBind(key, flag string) {
	if err := rootViper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		errorLogger.WithError(err).Fatalf("failed to bind flag --%s", flag)
	}
}
