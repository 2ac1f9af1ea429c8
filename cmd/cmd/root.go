package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cyberscribe/cmd/handlers"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cyberscribe",
	Short: "CyberScribe turns security videos and bug reports into blog posts",
	Long: `CyberScribe generates Medium-ready cybersecurity articles from YouTube
videos, HackerOne reports, or autonomous topic discovery, complete with
doodle-style illustrations and a LinkedIn promo post.

Run 'cyberscribe serve' to start the HTTP server, or 'cyberscribe
generate <url>' for a one-shot generation from the command line.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cyberscribe.yaml)")

	rootCmd.AddCommand(handlers.NewServeCmd())
	rootCmd.AddCommand(handlers.NewGenerateCmd())
	rootCmd.AddCommand(handlers.NewModelsCmd())
}
