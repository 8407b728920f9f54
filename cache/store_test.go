package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/sprocmap/extractor"
	"github.com/ridoystarlord/sprocmap/schema"
)

func candidates() []schema.TableOperationRow {
	return []schema.TableOperationRow{
		{TableName: "Orders", SQLOperation: "SELECT", OperationType: schema.Read, ProcedureName: "GetOrders", CombinedFeature: "Orders GetOrders READ", ClusterLabel: 1, ServiceName: "Customers"},
		{TableName: "Orders", SQLOperation: "UPDATE", OperationType: schema.Write, ProcedureName: "UpdateOrder", CombinedFeature: "Orders UpdateOrder WRITE", ClusterLabel: 0, ServiceName: "Orders"},
		{TableName: "Customers", SQLOperation: "SELECT", OperationType: schema.Read, ProcedureName: "GetOrders", CombinedFeature: "Customers GetOrders READ", ClusterLabel: 1, ServiceName: "Customers"},
	}
}

type spy struct {
	calls  int
	result []schema.TableOperationRow
	err    error
}

func (s *spy) compute(ctx context.Context) ([]schema.TableOperationRow, error) {
	s.calls++
	return s.result, s.err
}

// failingStore returns loadErr from Load and records saves.
type failingStore struct {
	MemoryStore
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStore) Load(ctx context.Context) ([]schema.TableOperationRow, error) {
	return nil, f.loadErr
}

func (f *failingStore) Save(ctx context.Context, rows []schema.TableOperationRow) error {
	f.saves++
	return f.saveErr
}

func TestLoadOrCompute_CacheHitSkipsCompute(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cached := candidates()
	cached[0].ServiceName = "HandEdited"
	require.NoError(t, store.Save(ctx, cached))

	s := &spy{result: candidates()}
	rows, hit, err := LoadOrCompute(ctx, store, true, s.compute)

	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 0, s.calls)
	assert.Equal(t, cached, rows)
}

func TestLoadOrCompute_MissComputesAndSaves(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := &spy{result: candidates()}

	rows, hit, err := LoadOrCompute(ctx, store, true, s.compute)

	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, candidates(), rows)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, candidates(), saved)
}

func TestLoadOrCompute_CacheDisabledAlwaysComputes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, candidates()[:1]))
	s := &spy{result: candidates()}

	rows, hit, err := LoadOrCompute(ctx, store, false, s.compute)

	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, s.calls)
	assert.Len(t, rows, 3)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 3)
}

func TestLoadOrCompute_BrokenCacheIsFatal(t *testing.T) {
	store := &failingStore{loadErr: ErrCacheSchema}
	s := &spy{result: candidates()}

	_, _, err := LoadOrCompute(context.Background(), store, true, s.compute)

	require.ErrorIs(t, err, ErrCacheSchema)
	var se *extractor.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, extractor.StageCacheLoad, se.Stage)
	assert.Equal(t, 0, s.calls)
	assert.Equal(t, 0, store.saves)
}

func TestLoadOrCompute_ComputeAndSaveErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	_, _, err := LoadOrCompute(ctx, NewMemoryStore(), false, (&spy{err: boom}).compute)
	assert.ErrorIs(t, err, boom)

	store := &failingStore{saveErr: boom}
	_, _, err = LoadOrCompute(ctx, store, false, (&spy{result: candidates()}).compute)
	require.ErrorIs(t, err, boom)
	var se *extractor.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, extractor.StageCacheStore, se.Stage)
}

func TestLoadOrCompute_WithPipeline(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seed := uint64(8)
	opts := extractor.Options{NumberOfClusters: 2, Seed: &seed}
	input := []schema.TableOperationRow{
		{TableName: "Order Details", ProcedureName: "AddOrder", SQLOperation: "INSERT"},
		{TableName: "Orders", ProcedureName: "AddOrder", SQLOperation: "INSERT"},
		{TableName: "Customers", ProcedureName: "GetCustomer", SQLOperation: "SELECT"},
	}
	compute := func(ctx context.Context) ([]schema.TableOperationRow, error) {
		return extractor.Compute(input, opts)
	}

	first, hit, err := LoadOrCompute(ctx, store, true, compute)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := LoadOrCompute(ctx, store, true, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, "Order Details", input[0].TableName)
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := Inspect(ctx, store)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, candidates()))
	summary, err := Inspect(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, 2, summary.Clusters)
	assert.Equal(t, []string{"Customers", "Orders"}, summary.Services)
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, candidates()))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}
