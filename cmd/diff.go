package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/cache"
	"github.com/ridoystarlord/sprocmap/diff"
	"github.com/ridoystarlord/sprocmap/extractor"
	"github.com/ridoystarlord/sprocmap/runner"
)

var diffFlags pipelineFlags

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare cached services with a fresh clustering",
	Long: `Recompute services from the extraction and compare them with the cached
service candidates. The cache is left untouched.

Use this before dropping --use-cache to see which hand edits or earlier
groupings a recompute would throw away.

Examples:
  sprocmap diff                       # compare against the cache with a random seed
  sprocmap diff --seed 42 -k 6        # compare against a reproducible 6-service grouping
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &diffFlags)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		store, closeStore, err := runner.OpenStore(ctx, cfg, runner.NewRunID())
		if err != nil {
			return err
		}
		defer closeStore()

		cached, err := store.Load(ctx)
		if errors.Is(err, cache.ErrNotFound) {
			return fmt.Errorf("nothing cached in %s, run 'sprocmap extract' first", store.Describe())
		}
		if err != nil {
			return extractor.WrapStage(extractor.StageCacheLoad, err)
		}
		before, err := extractor.Assemble(cached)
		if err != nil {
			return extractor.WrapStage(extractor.StageAssembly, err)
		}

		rows, err := runner.LoadInput(ctx, cfg)
		if err != nil {
			return err
		}
		fresh, err := runner.Fresh(ctx, cfg, rows)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ops := diff.DiffServices(before, fresh.Services)
		if len(ops) == 0 {
			fmt.Fprintln(out, "✅ No differences between cached and recomputed services")
			return nil
		}
		showDiff(out, ops)
		return nil
	},
}

func init() {
	diffFlags.registerClustering(diffCmd)
	diffFlags.registerInput(diffCmd)
	diffFlags.registerCache(diffCmd)
}

func showDiff(w io.Writer, ops []diff.Operation) {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	fmt.Fprintln(w, "🌳 Service Changes")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	for _, op := range ops {
		switch op.Type {
		case diff.AddService, diff.AddProcedure, diff.AddReadTable, diff.AddWriteTable:
			green.Fprintf(w, "  ➕ %s\n", op)
		case diff.DropService, diff.DropProcedure, diff.DropReadTable, diff.DropWriteTable:
			red.Fprintf(w, "  ❌ %s\n", op)
		case diff.MoveProcedure:
			yellow.Fprintf(w, "  ⚡ %s\n", op)
		}
	}

	fmt.Fprintf(w, "\n📊 %d changes\n", len(ops))
}
