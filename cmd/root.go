package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blockschema",
	Short: "Schema migration for block-indexed entity stores",
	Long: `blockschema keeps a Postgres schema namespace in line with a declarative
entity model, including the append-only historical layout where every row
carries a validity block range.

Examples:

  blockschema validate
  blockschema plan --historical
  blockschema apply --historical
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
}
