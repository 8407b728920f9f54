package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/runner"
	"github.com/ridoystarlord/sprocmap/validator"
)

var (
	validateFlags  pipelineFlags
	validateFormat string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the procedure-to-table extraction",
	Long: `Check the extraction rows before clustering them.

This command reports:
- Rows missing a table or procedure name (errors, extract refuses to run)
- SQL operations that are neither reads nor writes, such as EXEC or TRUNCATE
- Rows that appear more than once
- Pre-filled operation types that will be recomputed
- Names containing spaces that will be normalized

Examples:
  sprocmap validate                              # Validate ./results/tables_to_procs_cache.csv
  sprocmap validate -i extraction.yaml           # Validate a YAML extraction
  sprocmap validate --format json                # Output validation results as JSON
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &validateFlags)
		if err != nil {
			return err
		}

		rows, err := runner.LoadInput(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		result := validator.ValidateRows(rows)
		out := cmd.OutOrStdout()
		switch validateFormat {
		case "json":
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return err
			}
		case "text":
			printValidation(out, result)
		default:
			return fmt.Errorf("unsupported format %q (text, json)", validateFormat)
		}
		return result.Err()
	},
}

func init() {
	validateFlags.registerInput(validateCmd)
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

func printValidation(w io.Writer, result *validator.ValidationResult) {
	if result.Valid {
		color.New(color.FgGreen).Fprintf(w, "✅ Extraction validation passed! (%d rows)\n", result.Rows)
	} else {
		color.New(color.FgRed).Fprintf(w, "❌ Extraction validation failed! (%d rows)\n", result.Rows)
	}

	printFindings(w, "🔴 Errors", result.Errors)
	printFindings(w, "🟡 Warnings", result.Warnings)
	printFindings(w, "🔵 Info", result.Info)

	fmt.Fprintf(w, "\n📊 Summary:\n")
	fmt.Fprintf(w, "  • Errors: %d\n", len(result.Errors))
	fmt.Fprintf(w, "  • Warnings: %d\n", len(result.Warnings))
	fmt.Fprintf(w, "  • Info: %d\n", len(result.Info))

	if !result.Valid {
		fmt.Fprintf(w, "\n💡 Fix the errors above before running extract.\n")
	}
}

func printFindings(w io.Writer, heading string, findings []validator.ValidationError) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", heading, len(findings))
	for i, f := range findings {
		fmt.Fprintf(w, "  %d. row %d", i+1, f.Row)
		if f.Procedure != "" {
			fmt.Fprintf(w, " [%s]", f.Procedure)
		}
		if f.Table != "" {
			fmt.Fprintf(w, " -> %s", f.Table)
		}
		fmt.Fprintf(w, ": %s\n", f.Message)
	}
}
