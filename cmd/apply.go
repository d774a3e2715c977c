package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/indexforge/blockschema/database"
	"github.com/indexforge/blockschema/utils"
)

var (
	applySchemaFile string
	applyNamespace  string
	applyHistorical bool
	applyDryRun     bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Bring the database namespace in line with the schema file",
	Long: `Apply computes the DDL needed to bring the namespace in line with the
declared entity model and executes it in one transaction. Enum types are
synchronized first so dependent tables can reference them.

Examples:
  blockschema apply                          # Apply schema.yaml
  blockschema apply --historical             # Append-only versioned layout
  blockschema apply --namespace sgd1         # Override the file's namespace
  blockschema apply --dry-run                # Print the DDL without executing
`,
	Run: func(cmd *cobra.Command, args []string) {
		utils.LoadEnv()
		ctx := context.Background()

		p, doc, err := buildPlanner(ctx, applySchemaFile, applyNamespace, applyHistorical, applyDryRun)
		if err != nil {
			fmt.Println("❌ Planning migration:", err)
			os.Exit(1)
		}
		defer database.ClosePool()

		stmts := p.Statements()
		if len(stmts) == 0 {
			color.Green("✅ No changes detected, namespace %s is up to date.", doc.Namespace)
			return
		}

		if applyDryRun {
			fmt.Println("\n================ DRY RUN: Migration Preview ================")
			for _, stmt := range stmts {
				fmt.Println(stmt)
			}
			fmt.Println("============================================================")
			fmt.Println("(Dry run only. No statements were executed.)")
			return
		}

		fmt.Printf("Applying %d statement(s) to %s...\n", len(stmts), doc.Namespace)
		models, err := p.Run(ctx, nil)
		if err != nil {
			fmt.Println("❌ Migration failed:", err)
			os.Exit(1)
		}
		color.Green("✅ Migration applied, %d entity model(s) tracked.", len(models))
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applySchemaFile, "schema", "s", "schema.yaml", "Schema YAML file to load")
	applyCmd.Flags().StringVarP(&applyNamespace, "namespace", "n", "", "Override the namespace declared in the schema file")
	applyCmd.Flags().BoolVar(&applyHistorical, "historical", false, "Version rows with validity block ranges instead of updating in place")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Preview the DDL without executing it")
}
