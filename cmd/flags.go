package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/sprocmap/config"
	"github.com/ridoystarlord/sprocmap/utils"
)

// pipelineFlags are the config overrides shared by commands that run or
// inspect the pipeline.
type pipelineFlags struct {
	clusters    int
	useCache    bool
	seed        uint64
	input       string
	inputFormat string
	backend     string
	cachePath   string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	f.registerClustering(cmd)
	cmd.Flags().BoolVar(&f.useCache, "use-cache", false, "Reuse cached service candidates when present")
	f.registerInput(cmd)
	f.registerCache(cmd)
}

func (f *pipelineFlags) registerClustering(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.clusters, "clusters", "k", 0, "Number of services to cluster procedures into")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for centroid initialisation (random when unset)")
}

func (f *pipelineFlags) registerInput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Extraction file (csv, tsv, yaml)")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "Extraction format: csv, tsv, yaml, postgres")
}

func (f *pipelineFlags) registerCache(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "cache-backend", "", "Cache backend: file, sqlite, postgres, memory")
	cmd.Flags().StringVar(&f.cachePath, "cache-path", "", "Cache file or SQLite database path")
}

// loadConfig reads the config file and applies whatever flags cmd was given.
// The file is only required when --config was passed explicitly.
func loadConfig(cmd *cobra.Command, f *pipelineFlags) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	if !cmd.Flags().Changed("log-level") {
		if _, err := utils.SetupLogger(os.Stderr, cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	if f == nil {
		return cfg, nil
	}

	flags := cmd.Flags()
	if flags.Changed("clusters") {
		cfg.NumberOfClusters = f.clusters
	}
	if flags.Changed("use-cache") {
		cfg.UseCache = f.useCache
	}
	if flags.Changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}
	if flags.Changed("input") {
		cfg.Input.Path = f.input
	}
	if flags.Changed("input-format") {
		cfg.Input.Format = f.inputFormat
	}
	if flags.Changed("cache-backend") {
		cfg.Cache.Backend = f.backend
	}
	if flags.Changed("cache-path") {
		cfg.Cache.Path = f.cachePath
	}
	return cfg, cfg.Validate()
}
