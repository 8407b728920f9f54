package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ridoystarlord/sprocmap/database"
	"github.com/ridoystarlord/sprocmap/schema"
)

// DefaultTable is where the upstream mapper leaves its rows.
const DefaultTable = "tables_to_procs"

// Querier is the part of *pgxpool.Pool needed to read extraction rows.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ExistingColumn describes a column of the extraction table.
type ExistingColumn struct {
	ColumnName string
	DataType   string
	IsNullable bool
}

// LoadRows reads the upstream extraction table.
func LoadRows(ctx context.Context, q Querier, table string) ([]schema.TableOperationRow, error) {
	if table == "" {
		table = DefaultTable
	}
	if !database.IsValidIdentifier(table) {
		return nil, fmt.Errorf("invalid extraction table name %q", table)
	}

	columns, err := GetColumns(ctx, q, table)
	if err != nil {
		return nil, fmt.Errorf("getting columns for table %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}

	query, err := selectRowsQuery(table, columns)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying extraction rows: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.TableOperationRow, error) {
		var r schema.TableOperationRow
		var op string
		err := row.Scan(&r.TableName, &r.SQLOperation, &op, &r.ProcedureName)
		r.OperationType = schema.OperationType(op)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning extraction rows: %w", err)
	}
	return result, nil
}

// GetColumns lists the columns of table in the current schema.
func GetColumns(ctx context.Context, q Querier, table string) ([]ExistingColumn, error) {
	rows, err := q.Query(ctx, `
	SELECT column_name, data_type, (is_nullable = 'YES') AS is_nullable
	FROM information_schema.columns
	WHERE table_schema = current_schema() AND table_name = $1
	ORDER BY ordinal_position;
	`, table)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}

	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ExistingColumn, error) {
		var col ExistingColumn
		err := row.Scan(&col.ColumnName, &col.DataType, &col.IsNullable)
		return col, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning column: %w", err)
	}
	return columns, nil
}

// selectRowsQuery builds the extraction query. operation_type is read when the
// table has it and selected as an empty string otherwise; NULLs read as empty.
func selectRowsQuery(table string, columns []ExistingColumn) (string, error) {
	have := map[string]bool{}
	for _, c := range columns {
		have[c.ColumnName] = true
	}
	for _, col := range []string{schema.ColTableName, schema.ColSQLOperation, schema.ColProcedureName} {
		if !have[col] {
			return "", fmt.Errorf("table %s is missing column %s", table, col)
		}
	}

	opType := "''"
	if have[schema.ColOperationType] {
		opType = "COALESCE(operation_type, '')"
	}
	return fmt.Sprintf(
		"SELECT COALESCE(table_name, ''), COALESCE(sql_operation, ''), %s, COALESCE(procedure_name, '') FROM %s",
		opType, table,
	), nil
}
