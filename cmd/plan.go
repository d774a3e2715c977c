package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/indexforge/blockschema/database"
	"github.com/indexforge/blockschema/utils"
)

var (
	planSchemaFile string
	planNamespace  string
	planHistorical bool
	planOutFile    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the DDL a migration would execute",
	Long: `Plan computes the DDL needed to bring the namespace in line with the
declared entity model and prints it without executing anything.

Examples:
  blockschema plan                       # Print the DDL for schema.yaml
  blockschema plan --historical          # Plan the versioned layout
  blockschema plan --out migration.sql   # Also write the DDL to a file
`,
	Run: func(cmd *cobra.Command, args []string) {
		utils.LoadEnv()
		ctx := context.Background()

		p, doc, err := buildPlanner(ctx, planSchemaFile, planNamespace, planHistorical, true)
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

		fmt.Printf("-- Plan for namespace %s (%d statements)\n", doc.Namespace, len(stmts))
		for _, stmt := range stmts {
			fmt.Println(stmt)
		}

		if planOutFile != "" {
			if err := writePlanFile(planOutFile, doc.Namespace, stmts); err != nil {
				fmt.Println("❌ Writing plan file:", err)
				os.Exit(1)
			}
			color.Green("✅ Plan written to %s", planOutFile)
		}
	},
}

func writePlanFile(path, namespace string, stmts []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Plan for namespace %s\n", namespace)
	fmt.Fprintf(&b, "-- Generated: %s\n\n", time.Now().Format(time.RFC3339))
	for _, stmt := range stmts {
		b.WriteString(stmt)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func init() {
	planCmd.Flags().StringVarP(&planSchemaFile, "schema", "s", "schema.yaml", "Schema YAML file to load")
	planCmd.Flags().StringVarP(&planNamespace, "namespace", "n", "", "Override the namespace declared in the schema file")
	planCmd.Flags().BoolVar(&planHistorical, "historical", false, "Version rows with validity block ranges instead of updating in place")
	planCmd.Flags().StringVarP(&planOutFile, "out", "o", "", "Write the planned DDL to this file")
}
