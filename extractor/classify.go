package extractor

import "github.com/ridoystarlord/sprocmap/schema"

// Classify maps a DML verb to the kind of access it performs on a table.
// Anything that is not a DML verb, such as calling another procedure, is NONE.
func Classify(verb string) schema.OperationType {
	switch verb {
	case "SELECT":
		return schema.Read
	case "INSERT", "UPDATE", "DELETE":
		return schema.Write
	default:
		return schema.None
	}
}

// ClassifyRows returns a copy of rows with operation_type recomputed from sql_operation.
func ClassifyRows(rows []schema.TableOperationRow) []schema.TableOperationRow {
	out := schema.CloneRows(rows)
	for i := range out {
		out[i].OperationType = Classify(out[i].SQLOperation)
	}
	return out
}
