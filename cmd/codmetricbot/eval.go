package main

import (
	"fmt"
	"strings"

	"github.com/codmetric/codmetricbot/pkg/calc"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an arithmetic expression",
	Long: `Evaluates an expression with the same safe evaluator the chat uses.
Supported: + - * / // % ** ( ), with ^ for power and x for multiplication.`,
	Example: `  codmetricbot eval "2^10"
  codmetricbot eval 3.5 x 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := calc.Evaluate(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Result = %s\n", v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
