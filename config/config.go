// Package config loads pipeline settings from sprocmap.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/sprocmap/cache"
	"github.com/ridoystarlord/sprocmap/extractor"
	"github.com/ridoystarlord/sprocmap/introspect"
)

// DefaultFile is read when no config file is named explicitly.
const DefaultFile = "sprocmap.yaml"

// DefaultInputPath is where the upstream procedure-to-table mapper leaves its table.
const DefaultInputPath = "./results/tables_to_procs_cache.csv"

var ErrInvalidConfig = errors.New("invalid configuration")

// Cache backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type InputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // csv, tsv, yaml, postgres; empty infers from Path
	Table  string `yaml:"table"`  // postgres only
}

type CacheConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`  // file and sqlite; see CachePath
	Table     string `yaml:"table"` // sqlite and postgres
	Delimiter string `yaml:"delimiter"`
}

type Config struct {
	NumberOfClusters int         `yaml:"number_of_clusters"`
	UseCache         bool        `yaml:"use_cache"`
	Seed             *uint64     `yaml:"seed,omitempty"`
	LogLevel         string      `yaml:"log_level"`
	Input            InputConfig `yaml:"input"`
	Cache            CacheConfig `yaml:"cache"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		NumberOfClusters: extractor.DefaultNumberOfClusters,
		LogLevel:         "info",
		Input: InputConfig{
			Path:  DefaultInputPath,
			Table: introspect.DefaultTable,
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			Path:      cache.DefaultFilePath,
			Table:     cache.DefaultTable,
			Delimiter: ",",
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SPROCMAP_CLUSTERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SPROCMAP_CLUSTERS=%q is not a number", ErrInvalidConfig, v)
		}
		c.NumberOfClusters = n
	}
	if v := os.Getenv("SPROCMAP_USE_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: SPROCMAP_USE_CACHE=%q is not a boolean", ErrInvalidConfig, v)
		}
		c.UseCache = b
	}
	if v := os.Getenv("SPROCMAP_SEED"); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SPROCMAP_SEED=%q is not an unsigned integer", ErrInvalidConfig, v)
		}
		c.Seed = &s
	}
	if v := os.Getenv("SPROCMAP_INPUT"); v != "" {
		c.Input.Path = v
	}
	if v := os.Getenv("SPROCMAP_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("SPROCMAP_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks that the settings can drive a pipeline run.
func (c *Config) Validate() error {
	if c.NumberOfClusters < 1 {
		return fmt.Errorf("%w: number_of_clusters must be positive, got %d", ErrInvalidConfig, c.NumberOfClusters)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	if _, err := c.CacheDelimiter(); err != nil {
		return err
	}
	switch c.Input.Format {
	case "", "csv", "tsv", "yaml", "postgres":
	default:
		return fmt.Errorf("%w: unknown input format %q", ErrInvalidConfig, c.Input.Format)
	}
	return nil
}

// CacheDelimiter returns the single character separating cache file fields.
func (c *Config) CacheDelimiter() (rune, error) {
	d := c.Cache.Delimiter
	if d == "" {
		return ',', nil
	}
	if d == `\t` {
		return '\t', nil
	}
	runes := []rune(d)
	if len(runes) != 1 || strings.ContainsAny(d, "\"\r\n") {
		return 0, fmt.Errorf("%w: cache delimiter must be a single character, got %q", ErrInvalidConfig, d)
	}
	return runes[0], nil
}

// CachePath is the file the file or sqlite backend keeps its table in. The
// file backend's default path is never handed to sqlite, so switching
// backends does not open a CSV file as a database.
func (c *Config) CachePath() string {
	if c.Cache.Backend == BackendSQLite && (c.Cache.Path == "" || c.Cache.Path == cache.DefaultFilePath) {
		return cache.DefaultSQLitePath
	}
	if c.Cache.Path == "" {
		return cache.DefaultFilePath
	}
	return c.Cache.Path
}

// NeedsDatabase reports whether any part of the run talks to Postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Input.Format == "postgres" || c.Cache.Backend == BackendPostgres
}

// Options converts the settings into clustering options.
func (c *Config) Options() extractor.Options {
	return extractor.Options{
		NumberOfClusters: c.NumberOfClusters,
		Seed:             c.Seed,
	}
}

// Marshal renders the settings as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
