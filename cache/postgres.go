package cache

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ridoystarlord/sprocmap/schema"
)

// PgxConn is the part of *pgxpool.Pool the Postgres store uses.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore keeps the table in a Postgres database.
type PostgresStore struct {
	conn  PgxConn
	table string
	runID string
}

// NewPostgresStore stores rows in table, stamping each save with runID.
func NewPostgresStore(conn PgxConn, table, runID string) (*PostgresStore, error) {
	table, err := checkTable(table)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{conn: conn, table: table, runID: runID}, nil
}

func (p *PostgresStore) columns(ctx context.Context) ([]string, error) {
	rows, err := p.conn.Query(ctx, `
	SELECT column_name
	FROM information_schema.columns
	WHERE table_schema = current_schema() AND table_name = $1
	ORDER BY ordinal_position;
	`, p.table)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	cols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning columns: %w", err)
	}
	return cols, nil
}

func (p *PostgresStore) Load(ctx context.Context) ([]schema.TableOperationRow, error) {
	cols, err := p.columns(ctx)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, ErrNotFound
	}
	if _, err := columnIndex(cols); err != nil {
		return nil, err
	}

	rows, err := p.conn.Query(ctx, selectRowsSQL(p.table))
	if err != nil {
		return nil, fmt.Errorf("querying cached rows: %w", err)
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.TableOperationRow, error) {
		return scanRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning cached rows: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

func (p *PostgresStore) Save(ctx context.Context, rows []schema.TableOperationRow) error {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, createTableSQL(p.table)); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM "+p.table); err != nil {
		return fmt.Errorf("clear cache table: %w", err)
	}

	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = insertArgs(p.runID, i, r)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{p.table}, insertColumns(), pgx.CopyFromRows(data)); err != nil {
		return fmt.Errorf("copy cached rows: %w", err)
	}
	return tx.Commit(ctx)
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, "DROP TABLE IF EXISTS "+p.table); err != nil {
		return fmt.Errorf("drop cache table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Describe() string {
	return "postgres table " + p.table
}
