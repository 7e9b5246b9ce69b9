package main

import (
	"fmt"
	"strings"

	"github.com/codmetric/codmetricbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of codmetricbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codmetricbot version %s\n", strings.TrimSpace(codmetricbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
