package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/codmetric/codmetricbot/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codmetricbot",
	Short: "CodmetricBot is an offline rule-based assistant",
	Long: `CodmetricBot answers greetings, time and date questions, jokes, quotes and
arithmetic from a fixed table of rules. Run without a subcommand to chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *cli.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default: ./codmetricbot.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")

	rootCmd.Flags().Bool("json", false, "Read and write newline-delimited JSON instead of text")
}

func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.LoadApp(path, cli.AppOptions{Debug: debug})
}
