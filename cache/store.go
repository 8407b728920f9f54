// Package cache persists clustered and named service candidates so that the
// clustering step can be skipped, and so that hand edits to the persisted
// table override what clustering would have produced.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ridoystarlord/sprocmap/extractor"
	"github.com/ridoystarlord/sprocmap/schema"
)

var (
	// ErrNotFound means the store holds no cached result.
	ErrNotFound = errors.New("no cached service candidates")
	// ErrCacheSchema means a cached result exists but lacks required columns.
	ErrCacheSchema = errors.New("cached service candidates do not match the expected columns")
)

// Store holds one service candidates table.
type Store interface {
	// Load returns the cached rows, or ErrNotFound.
	Load(ctx context.Context) ([]schema.TableOperationRow, error)
	// Save replaces the cached rows.
	Save(ctx context.Context, rows []schema.TableOperationRow) error
	// Clear drops the cached rows. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Describe names where the store keeps its data.
	Describe() string
}

// ComputeFunc derives the service candidates table. It is responsible for
// reading its own input, so nothing upstream of clustering runs on a cache hit.
type ComputeFunc func(ctx context.Context) ([]schema.TableOperationRow, error)

// LoadOrCompute returns the cached table verbatim when useCache is set and the
// store has one. Otherwise it runs compute and saves the result.
// A cached table that cannot be read is an error, never a reason to recompute.
func LoadOrCompute(ctx context.Context, store Store, useCache bool, compute ComputeFunc) ([]schema.TableOperationRow, bool, error) {
	if useCache {
		cached, err := store.Load(ctx)
		switch {
		case err == nil:
			slog.Info("using cached service candidates", "store", store.Describe(), "rows", len(cached))
			return cached, true, nil
		case errors.Is(err, ErrNotFound):
			slog.Info("no cached service candidates, computing", "store", store.Describe())
		default:
			return nil, false, extractor.WrapStage(extractor.StageCacheLoad, fmt.Errorf("%s: %w", store.Describe(), err))
		}
	}

	computed, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := store.Save(ctx, computed); err != nil {
		return nil, false, extractor.WrapStage(extractor.StageCacheStore, fmt.Errorf("%s: %w", store.Describe(), err))
	}
	return computed, false, nil
}

// Summary describes a cached table.
type Summary struct {
	Rows     int
	Clusters int
	Services []string
}

// Inspect loads the cached table and summarises it.
func Inspect(ctx context.Context, store Store) (*Summary, error) {
	rows, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Rows: len(rows)}
	labels := map[int]bool{}
	seen := map[string]bool{}
	for _, r := range rows {
		if !labels[r.ClusterLabel] {
			labels[r.ClusterLabel] = true
			summary.Clusters++
		}
		if !seen[r.ServiceName] {
			seen[r.ServiceName] = true
			summary.Services = append(summary.Services, r.ServiceName)
		}
	}
	return summary, nil
}
