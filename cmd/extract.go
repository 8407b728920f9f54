package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/generator"
	"github.com/ridoystarlord/sprocmap/runner"
	"github.com/ridoystarlord/sprocmap/schema"
)

var (
	extractFlags  pipelineFlags
	extractFormat string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Cluster procedures into services",
	Long: `Load the procedure-to-table extraction, cluster procedures into services
and print one definition per service.

With --use-cache a previously saved service candidates table is used
verbatim, so hand edits to that table survive. Without it the candidates
are recomputed and the cache is overwritten.

Examples:
  sprocmap extract                              # 5 services from ./results/tables_to_procs_cache.csv
  sprocmap extract -k 8 --seed 42               # reproducible grouping into 8 services
  sprocmap extract --use-cache --format json    # reuse the cached candidates, print JSON
  sprocmap extract --input-format postgres      # read the tables_to_procs table
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &extractFlags)
		if err != nil {
			return err
		}

		result, err := runner.Run(cmd.Context(), cfg)
		if err != nil {
			if result != nil && result.Validation != nil && !result.Validation.Valid {
				printValidation(cmd.ErrOrStderr(), result.Validation)
			}
			return fmt.Errorf("extraction failed: %w", err)
		}

		out := cmd.OutOrStdout()
		switch extractFormat {
		case "json":
			return generator.WriteJSON(out, result.Services)
		case "yaml":
			return generator.WriteYAML(out, result.Services)
		case "text":
			printServices(out, result)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (text, json, yaml)", extractFormat)
		}
	},
}

func init() {
	extractFlags.register(extractCmd)
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "text", "Output format (text, json, yaml)")
}

func printServices(w io.Writer, result *runner.Result) {
	title := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if result.CacheHit {
		fmt.Fprintf(w, "🧩 %d services from %d cached candidates\n", len(result.Services), len(result.Candidates))
	} else {
		fmt.Fprintf(w, "🧩 %d services from %d computed candidates (seed %d)\n", len(result.Services), len(result.Candidates), result.Seed)
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))

	for _, def := range result.Services {
		title.Fprintf(w, "\n📦 %s\n", def.ServiceName)
		fmt.Fprintf(w, "  procs:  %s\n", list(def.Procs))
		green.Fprintf(w, "  reads:  %s\n", list(def.ReadTables))
		yellow.Fprintf(w, "  writes: %s\n", list(def.WriteTables))
	}
}

func list(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

// procCount is the number of procedure slots across defs.
func procCount(defs []schema.ServiceDefinition) int {
	n := 0
	for _, d := range defs {
		n += len(d.Procs)
	}
	return n
}
