package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/config"
	"github.com/ridoystarlord/sprocmap/database"
	"github.com/ridoystarlord/sprocmap/utils"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "sprocmap",
	Short: "Group stored procedures into services for diagramming",
	Long: `sprocmap reads a procedure-to-table extraction (which stored procedure
reads or writes which table), clusters the procedures into candidate
services and names each service after the table it mostly writes.

Examples:

  sprocmap init
  sprocmap validate
  sprocmap extract --clusters 8 --seed 42
  sprocmap docs --format plantuml
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.LoadEnv()
		level := logLevel
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		_, err := utils.SetupLogger(os.Stderr, level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		database.ClosePool()
	},
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("❌", err)
		stop()
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "Config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log_level)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(healthCmd)
}
