// Package runner drives one extraction: load rows, validate them, cluster or
// reuse the cached candidates, and fold the result into service definitions.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ridoystarlord/sprocmap/cache"
	"github.com/ridoystarlord/sprocmap/config"
	"github.com/ridoystarlord/sprocmap/database"
	"github.com/ridoystarlord/sprocmap/extractor"
	"github.com/ridoystarlord/sprocmap/introspect"
	"github.com/ridoystarlord/sprocmap/loader"
	"github.com/ridoystarlord/sprocmap/schema"
	"github.com/ridoystarlord/sprocmap/validator"
)

// Result is everything a run produced. Seed and Validation are only set
// when the run clustered, not when the cache answered.
type Result struct {
	RunID      string
	Seed       uint64
	CacheHit   bool
	Validation *validator.ValidationResult
	Candidates []schema.TableOperationRow
	Services   []schema.ServiceDefinition
}

// NewRunID returns an identifier for log lines and database cache rows.
func NewRunID() string {
	return uuid.NewString()
}

// LoadInput reads the extraction rows named by cfg.Input.
func LoadInput(ctx context.Context, cfg *config.Config) ([]schema.TableOperationRow, error) {
	if cfg.Input.Format == "postgres" {
		pool, err := database.GetPool(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rows, err := introspect.LoadRows(ctx, pool, cfg.Input.Table)
		if err != nil {
			return nil, fmt.Errorf("load extraction table %s: %w", cfg.Input.Table, err)
		}
		slog.Debug("loaded extraction rows", "table", cfg.Input.Table, "rows", len(rows))
		return rows, nil
	}

	rows, err := loader.LoadRows(cfg.Input.Path, cfg.Input.Format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Input.Path, err)
	}
	slog.Debug("loaded extraction rows", "path", cfg.Input.Path, "rows", len(rows))
	return rows, nil
}

// OpenStore builds the cache backend cfg asks for. The returned close
// function releases whatever the store holds open and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, runID string) (cache.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Cache.Backend {
	case config.BackendMemory:
		return cache.NewMemoryStore(), noop, nil

	case config.BackendFile:
		delim, err := cfg.CacheDelimiter()
		if err != nil {
			return nil, noop, err
		}
		return cache.NewFileStore(cfg.CachePath(), delim), noop, nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(ctx, cfg.CachePath())
		if err != nil {
			return nil, noop, err
		}
		store, err := cache.NewSQLiteStore(db, cfg.Cache.Table, runID)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return store, db.Close, nil

	case config.BackendPostgres:
		pool, err := database.GetPool(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		store, err := cache.NewPostgresStore(pool, cfg.Cache.Table, runID)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}

	return nil, noop, fmt.Errorf("%w: unknown cache backend %q", config.ErrInvalidConfig, cfg.Cache.Backend)
}

// Source supplies extraction rows.
type Source func(ctx context.Context) ([]schema.TableOperationRow, error)

// Rows returns a Source over rows that are already in memory.
func Rows(rows []schema.TableOperationRow) Source {
	return func(context.Context) ([]schema.TableOperationRow, error) {
		return rows, nil
	}
}

// Run performs a full extraction as configured. The input is only read when
// the cache cannot answer.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	runID := NewRunID()
	slog.Info("starting extraction", "run_id", runID, "clusters", cfg.NumberOfClusters, "use_cache", cfg.UseCache)

	store, closeStore, err := OpenStore(ctx, cfg, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("closing cache store", "store", store.Describe(), "error", err)
		}
	}()

	return Execute(ctx, cfg, store, func(ctx context.Context) ([]schema.TableOperationRow, error) {
		return LoadInput(ctx, cfg)
	}, runID)
}

// Execute runs the pipeline with store in front of it. source is consulted
// only on a cache miss or when the cache is disabled; its rows are validated
// and invalid rows abort the run. The returned Result carries the validation
// report even when validation fails.
func Execute(ctx context.Context, cfg *config.Config, store cache.Store, source Source, runID string) (*Result, error) {
	logger := slog.With("run_id", runID)
	result := &Result{RunID: runID}

	candidates, hit, err := cache.LoadOrCompute(ctx, store, cfg.UseCache, func(ctx context.Context) ([]schema.TableOperationRow, error) {
		rows, err := source(ctx)
		if err != nil {
			return nil, err
		}

		validation := validator.ValidateRows(rows)
		result.Validation = validation
		for _, w := range validation.Warnings {
			logger.Warn(w.Message, "row", w.Row, "procedure", w.Procedure, "table", w.Table)
		}
		if err := validation.Err(); err != nil {
			return nil, extractor.WrapStage(extractor.StageNormalization, err)
		}

		opts := cfg.Options()
		seed := opts.ResolveSeed()
		opts.Seed = &seed
		result.Seed = seed
		if cfg.Seed == nil {
			logger.Info("no seed configured, drawing one", "seed", seed)
		} else {
			logger.Debug("clustering seed", "seed", seed)
		}
		logger.Debug("clustering extraction rows", "rows", len(rows))

		return extractor.Compute(rows, opts)
	})
	if err != nil {
		return result, err
	}
	result.Candidates = candidates
	result.CacheHit = hit

	services, err := extractor.Assemble(candidates)
	if err != nil {
		return result, extractor.WrapStage(extractor.StageAssembly, err)
	}
	result.Services = services

	logger.Info("extraction finished", "candidates", len(candidates), "services", len(services), "cache_hit", hit)
	return result, nil
}

// Fresh recomputes service definitions from rows, ignoring and leaving
// untouched whatever cache cfg names.
func Fresh(ctx context.Context, cfg *config.Config, rows []schema.TableOperationRow) (*Result, error) {
	fresh := *cfg
	fresh.UseCache = false
	return Execute(ctx, &fresh, cache.NewMemoryStore(), Rows(rows), NewRunID())
}
