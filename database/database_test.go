package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"service_candidates", "tables_to_procs", "_t1", "Orders"}
	invalid := []string{"", "1orders", "orders;drop", "order details", `"quoted"`, strings.Repeat("a", 64)}

	for _, name := range valid {
		assert.True(t, IsValidIdentifier(name), name)
	}
	for _, name := range invalid {
		assert.False(t, IsValidIdentifier(name), name)
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("/tmp/cache.sqlite")

	assert.True(t, strings.HasPrefix(dsn, "/tmp/cache.sqlite?"))
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_txlock=immediate")
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "cache.sqlite")

	db, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	assert.FileExists(t, path)
}
