package cache

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/sprocmap/database"
	"github.com/ridoystarlord/sprocmap/schema"
)

// DefaultTable is the table the database stores write to.
const DefaultTable = "service_candidates"

func checkTable(table string) (string, error) {
	if table == "" {
		table = DefaultTable
	}
	if !database.IsValidIdentifier(table) {
		return "", fmt.Errorf("invalid cache table name %q", table)
	}
	return table, nil
}

// createTableSQL is valid for both SQLite and Postgres.
func createTableSQL(table string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		table_name TEXT NOT NULL,
		sql_operation TEXT NOT NULL,
		operation_type TEXT NOT NULL,
		procedure_name TEXT NOT NULL,
		combined_feature TEXT NOT NULL,
		cluster_label INTEGER NOT NULL,
		service_name TEXT NOT NULL
	);
	`, table)
}

func selectRowsSQL(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY position", strings.Join(schema.CacheColumns, ", "), table)
}

func insertColumns() []string {
	return append([]string{"run_id", "position"}, schema.CacheColumns...)
}

func insertRowSQL(table string) string {
	cols := insertColumns()
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(marks, ", "))
}

func insertArgs(runID string, position int, r schema.TableOperationRow) []any {
	return []any{
		runID,
		position,
		r.TableName,
		r.SQLOperation,
		string(r.OperationType),
		r.ProcedureName,
		r.CombinedFeature,
		r.ClusterLabel,
		r.ServiceName,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (schema.TableOperationRow, error) {
	var r schema.TableOperationRow
	var op string
	if err := s.Scan(
		&r.TableName,
		&r.SQLOperation,
		&op,
		&r.ProcedureName,
		&r.CombinedFeature,
		&r.ClusterLabel,
		&r.ServiceName,
	); err != nil {
		return r, err
	}
	r.OperationType = schema.OperationType(op)
	return r, nil
}
