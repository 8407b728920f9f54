package extractor

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/sprocmap/schema"
)

// Normalize makes a table or procedure name safe to use as a diagram identifier.
// Only spaces are touched; quotes and brackets pass through.
func Normalize(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// NormalizeRows returns a copy of rows with normalized table and procedure names.
// Rows missing either name are rejected.
func NormalizeRows(rows []schema.TableOperationRow) ([]schema.TableOperationRow, error) {
	out := schema.CloneRows(rows)
	for i := range out {
		if out[i].TableName == "" {
			return nil, fmt.Errorf("%w: row %d has no %s", ErrMalformedRow, i+1, schema.ColTableName)
		}
		if out[i].ProcedureName == "" {
			return nil, fmt.Errorf("%w: row %d has no %s", ErrMalformedRow, i+1, schema.ColProcedureName)
		}
		out[i].TableName = Normalize(out[i].TableName)
		out[i].ProcedureName = Normalize(out[i].ProcedureName)
	}
	return out, nil
}
