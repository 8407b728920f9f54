package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ridoystarlord/sprocmap/schema"
)

// DefaultSQLitePath is where the SQLite store keeps its database unless told otherwise.
const DefaultSQLitePath = "./results/service_candidates_cache.db"

// SQLiteStore keeps the table in a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	table string
	runID string
}

// NewSQLiteStore stores rows in table, stamping each save with runID.
func NewSQLiteStore(db *sql.DB, table, runID string) (*SQLiteStore, error) {
	table, err := checkTable(table)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, table: table, runID: runID}, nil
}

func (s *SQLiteStore) columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", s.table))
	if err != nil {
		return nil, fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]schema.TableOperationRow, error) {
	cols, err := s.columns(ctx)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, ErrNotFound
	}
	if _, err := columnIndex(cols); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectRowsSQL(s.table))
	if err != nil {
		return nil, fmt.Errorf("query cached rows: %w", err)
	}
	defer rows.Close()

	var result []schema.TableOperationRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cached row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached rows: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rows []schema.TableOperationRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(s.table)); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.table); err != nil {
		return fmt.Errorf("clear cache table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRowSQL(s.table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, insertArgs(s.runID, i, r)...); err != nil {
			return fmt.Errorf("insert cached row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+s.table); err != nil {
		return fmt.Errorf("drop cache table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Describe() string {
	return "sqlite table " + s.table
}
