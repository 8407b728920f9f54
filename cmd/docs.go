package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/generator"
	"github.com/ridoystarlord/sprocmap/runner"
)

var (
	docsFlags  pipelineFlags
	docsFormat string
	docsOutput string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Write a diagram description per service",
	Long: `Run the extraction and write one diagram description per service.

Each diagram shows the service, its procedures, the tables it reads and
the tables it writes. Only the text is written; render it with your own
PlantUML or Mermaid tooling.

Supported formats:
  - plantuml: <service>.puml
  - mermaid: <service>.mmd
  - all: both

Examples:
  sprocmap docs                                 # PlantUML files in ./results
  sprocmap docs --format mermaid --output docs/
  sprocmap docs --use-cache --format all
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &docsFlags)
		if err != nil {
			return err
		}

		result, err := runner.Run(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		if len(result.Services) == 0 {
			return fmt.Errorf("no services found in %s", cfg.Input.Path)
		}

		paths, err := generator.WriteDiagrams(docsOutput, result.Services, docsFormat)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range paths {
			fmt.Fprintf(out, "📝 %s\n", p)
		}
		fmt.Fprintf(out, "✅ %d diagrams for %d services covering %d procedures\n", len(paths), len(result.Services), procCount(result.Services))
		return nil
	},
}

func init() {
	docsFlags.register(docsCmd)
	docsCmd.Flags().StringVarP(&docsFormat, "format", "f", generator.FormatPlantUML, "Diagram format (plantuml, mermaid, all)")
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "./results", "Output directory")
}
