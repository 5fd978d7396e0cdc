package cmd

import (
	"fmt"
	"os"

	"daily5/cmd/handlers"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "daily5",
	Short: "daily5 assembles and delivers a personalized five-item tech digest",
	Long: `daily5 aggregates content from Hacker News, GitHub, Dev.to, Reddit,
Product Hunt, Devpost, and configured RSS feeds, scores it against each
user's interests and GitHub activity, and delivers a validated,
de-duplicated "Daily 5" digest by email.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.daily5.yaml or $HOME/.daily5.yaml)")

	rootCmd.AddCommand(handlers.NewRunCmd())
	rootCmd.AddCommand(handlers.NewSourcesCmd())
	rootCmd.AddCommand(handlers.NewCacheCmd())
}
