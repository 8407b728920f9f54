package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/config"
	"github.com/ridoystarlord/sprocmap/database"
	"github.com/ridoystarlord/sprocmap/introspect"
)

var healthTimeout time.Duration

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check that the database in DATABASE_URL is reachable and report whether the
extraction and cache tables exist.

Examples:
  sprocmap health                    # Check default database connection
  sprocmap health --timeout 10s      # Set custom timeout
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		if err := checkDatabaseHealth(ctx, cmd.OutOrStdout(), cfg); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Database is healthy and accessible")
		return nil
	},
}

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth(ctx context.Context, w io.Writer, cfg *config.Config) error {
	if !cfg.NeedsDatabase() {
		fmt.Fprintln(w, "ℹ️  Neither input nor cache uses Postgres with the current settings")
	}

	latency, err := database.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "⏱️  Ping %s\n", latency.Round(time.Microsecond))

	pool, err := database.GetPool(ctx)
	if err != nil {
		return err
	}

	tables := []struct {
		label string
		name  string
	}{
		{"extraction table", cfg.Input.Table},
		{"cache table", cfg.Cache.Table},
	}
	for _, t := range tables {
		columns, err := introspect.GetColumns(ctx, pool, t.name)
		if err != nil {
			return fmt.Errorf("failed to inspect %s %s: %w", t.label, t.name, err)
		}
		if len(columns) == 0 {
			fmt.Fprintf(w, "⚠️  %s %s not found\n", t.label, t.name)
			continue
		}
		fmt.Fprintf(w, "📊 %s %s has %d columns\n", t.label, t.name, len(columns))
	}
	return nil
}
