package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/indexforge/blockschema/loader"
	"github.com/indexforge/blockschema/validator"
)

var (
	validateSchemaFile string
	validateFormat     string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the schema file without touching the database",
	Long: `Validate checks the declared entity model for problems before planning:
duplicate entities and fields, unsupported field types, undeclared enum
references, malformed indexes and relation endpoints.

Examples:
  blockschema validate                       # Validate schema.yaml
  blockschema validate --schema custom.yaml  # Validate a custom schema file
  blockschema validate --format json         # Output results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := loader.LoadDocument(validateSchemaFile)
		if err != nil {
			fmt.Println("❌ Loading schema:", err)
			os.Exit(1)
		}

		result := validator.Validate(doc)

		if validateFormat == "json" {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Println("❌ Encoding result:", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
		} else {
			for _, w := range result.Warnings {
				color.Yellow("⚠️  %s", w.Message)
			}
			for _, e := range result.Errors {
				color.Red("✗ %s", e.Message)
			}
			if result.Valid {
				color.Green("✅ Schema is valid (%d entities, %d relations, %d enums)",
					len(doc.Models), len(doc.Relations), len(doc.Enums))
			}
		}

		if !result.Valid {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "schema.yaml", "Schema file to validate")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}
