package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/cache"
	"github.com/ridoystarlord/sprocmap/runner"
)

var cacheFlags pipelineFlags

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the cached service candidates",
	Long: `The service candidates table is saved after every extraction. It can be
edited by hand and reused with 'sprocmap extract --use-cache'.

Examples:
  sprocmap cache show
  sprocmap cache clear --cache-backend sqlite --cache-path ./results/cache.db
`,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarise the cached service candidates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &cacheFlags)
		if err != nil {
			return err
		}
		store, closeStore, err := runner.OpenStore(cmd.Context(), cfg, runner.NewRunID())
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		summary, err := cache.Inspect(cmd.Context(), store)
		if errors.Is(err, cache.ErrNotFound) {
			fmt.Fprintf(out, "📭 Nothing cached in %s\n", store.Describe())
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", store.Describe(), err)
		}

		fmt.Fprintf(out, "📦 %s\n", store.Describe())
		fmt.Fprintf(out, "  • Rows: %d\n", summary.Rows)
		fmt.Fprintf(out, "  • Clusters: %d\n", summary.Clusters)
		fmt.Fprintf(out, "  • Services: %d\n", len(summary.Services))
		for _, name := range summary.Services {
			color.New(color.FgCyan).Fprintf(out, "    - %s\n", name)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached service candidates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &cacheFlags)
		if err != nil {
			return err
		}
		store, closeStore, err := runner.OpenStore(cmd.Context(), cfg, runner.NewRunID())
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clearing %s: %w", store.Describe(), err)
		}
		color.Green("✅ Cleared %s", store.Describe())
		return nil
	},
}

func init() {
	cacheFlags.registerCache(cacheShowCmd)
	cacheFlags.registerCache(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
