package cache

import (
	"context"

	"github.com/ridoystarlord/sprocmap/schema"
)

// MemoryStore keeps the table in process memory.
type MemoryStore struct {
	rows []schema.TableOperationRow
	ok   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]schema.TableOperationRow, error) {
	if !m.ok {
		return nil, ErrNotFound
	}
	return schema.CloneRows(m.rows), nil
}

func (m *MemoryStore) Save(ctx context.Context, rows []schema.TableOperationRow) error {
	m.rows = schema.CloneRows(rows)
	m.ok = true
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.rows = nil
	m.ok = false
	return nil
}

func (m *MemoryStore) Describe() string {
	return "memory"
}
