package main

import (
	"fmt"

	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the reply rules in priority order",
	Run: func(cmd *cobra.Command, args []string) {
		for i, name := range intent.Rules() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
