package validator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/sprocmap/extractor"
	"github.com/ridoystarlord/sprocmap/schema"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Type      string `json:"type"`
	Row       int    `json:"row,omitempty"`
	Table     string `json:"table,omitempty"`
	Procedure string `json:"procedure,omitempty"`
	Message   string `json:"message"`
	Severity  string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Rows     int               `json:"rows"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

// Err returns nil for a valid result and otherwise an error summarising the
// first problem found.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	first := r.Errors[0]
	return fmt.Errorf("%w: row %d: %s (%d errors)", extractor.ErrMalformedRow, first.Row, first.Message, len(r.Errors))
}

// ValidateRows checks extraction rows before they enter the pipeline.
//
// Rows without a table or procedure name are errors. Verbs that are not DML,
// repeated rows, and pre-populated operation types that disagree with the
// verb are reported but do not stop a run.
func ValidateRows(rows []schema.TableOperationRow) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Rows:     len(rows),
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	seen := map[schema.TableOperationRow]int{}
	for i, r := range rows {
		n := i + 1
		validateNames(n, r, result)

		op := extractor.Classify(r.SQLOperation)
		if op == schema.None {
			result.Warnings = append(result.Warnings, ValidationError{
				Type:      "unclassified_operation",
				Row:       n,
				Table:     r.TableName,
				Procedure: r.ProcedureName,
				Message:   fmt.Sprintf("sql_operation %q is neither a read nor a write", r.SQLOperation),
				Severity:  "warning",
			})
		}

		if r.OperationType != "" && r.OperationType != op {
			result.Info = append(result.Info, ValidationError{
				Type:      "stale_operation_type",
				Row:       n,
				Table:     r.TableName,
				Procedure: r.ProcedureName,
				Message:   fmt.Sprintf("operation_type %s will be recomputed as %s", r.OperationType, op),
				Severity:  "info",
			})
		}

		key := schema.TableOperationRow{TableName: r.TableName, SQLOperation: r.SQLOperation, ProcedureName: r.ProcedureName}
		if first, ok := seen[key]; ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Type:      "duplicate_row",
				Row:       n,
				Table:     r.TableName,
				Procedure: r.ProcedureName,
				Message:   fmt.Sprintf("same as row %d", first),
				Severity:  "warning",
			})
		} else {
			seen[key] = n
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateNames(n int, r schema.TableOperationRow, result *ValidationResult) {
	names := []struct {
		column string
		value  string
	}{
		{schema.ColTableName, r.TableName},
		{schema.ColProcedureName, r.ProcedureName},
	}

	for _, name := range names {
		if strings.TrimSpace(name.value) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Type:      "missing_name",
				Row:       n,
				Table:     r.TableName,
				Procedure: r.ProcedureName,
				Message:   fmt.Sprintf("%s is empty", name.column),
				Severity:  "error",
			})
			continue
		}
		if normalized := extractor.Normalize(name.value); normalized != name.value {
			result.Info = append(result.Info, ValidationError{
				Type:      "name_normalized",
				Row:       n,
				Table:     r.TableName,
				Procedure: r.ProcedureName,
				Message:   fmt.Sprintf("%s %q becomes %q", name.column, name.value, normalized),
				Severity:  "info",
			})
		}
	}
}
