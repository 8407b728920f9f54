package schema

import (
	"fmt"
	"strings"
)

type OperationType string

const (
	Read  OperationType = "READ"
	Write OperationType = "WRITE"
	None  OperationType = "NONE"
)

// NoNameService is the name given to a cluster that has no rows to derive a name from.
const NoNameService = "Service With No Name"

// Column names of the extraction table and of the cached service candidates.
const (
	ColTableName       = "table_name"
	ColSQLOperation    = "sql_operation"
	ColOperationType   = "operation_type"
	ColProcedureName   = "procedure_name"
	ColCombinedFeature = "combined_feature"
	ColClusterLabel    = "cluster_label"
	ColServiceName     = "service_name"
)

// ExtractionColumns are the columns of an upstream extraction table.
// operation_type is optional on input; the rest are required.
var ExtractionColumns = []string{
	ColTableName,
	ColSQLOperation,
	ColOperationType,
	ColProcedureName,
}

// CacheColumns is the column order of a persisted service candidates table.
var CacheColumns = []string{
	ColTableName,
	ColSQLOperation,
	ColOperationType,
	ColProcedureName,
	ColCombinedFeature,
	ColClusterLabel,
	ColServiceName,
}

// TableOperationRow records that a procedure performs an operation on a table.
type TableOperationRow struct {
	TableName       string        `json:"table_name" yaml:"table_name"`
	SQLOperation    string        `json:"sql_operation" yaml:"sql_operation"`
	OperationType   OperationType `json:"operation_type" yaml:"operation_type"`
	ProcedureName   string        `json:"procedure_name" yaml:"procedure_name"`
	CombinedFeature string        `json:"combined_feature,omitempty" yaml:"combined_feature,omitempty"`
	ClusterLabel    int           `json:"cluster_label" yaml:"cluster_label"`
	ServiceName     string        `json:"service_name,omitempty" yaml:"service_name,omitempty"`
}

// ServiceDefinition is a group of procedures and the tables they touch.
type ServiceDefinition struct {
	ServiceName string   `json:"service_name" yaml:"service_name"`
	Procs       []string `json:"procs" yaml:"procs"`
	ReadTables  []string `json:"read_tables" yaml:"read_tables"`
	WriteTables []string `json:"write_tables" yaml:"write_tables"`
}

func (s ServiceDefinition) String() string {
	return fmt.Sprintf("ServiceDefinition: %s (procs: [%s], read_tables: [%s], write_tables: [%s])",
		s.ServiceName,
		strings.Join(s.Procs, ", "),
		strings.Join(s.ReadTables, ", "),
		strings.Join(s.WriteTables, ", "),
	)
}

// CloneRows returns a copy of rows that can be modified without touching the original.
func CloneRows(rows []TableOperationRow) []TableOperationRow {
	if rows == nil {
		return nil
	}
	out := make([]TableOperationRow, len(rows))
	copy(out, rows)
	return out
}
