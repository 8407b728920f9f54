package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/sprocmap/extractor"
	"github.com/ridoystarlord/sprocmap/schema"
)

func TestValidateRows_Clean(t *testing.T) {
	result := ValidateRows([]schema.TableOperationRow{
		{TableName: "Orders", SQLOperation: "SELECT", ProcedureName: "GetOrders"},
		{TableName: "Orders", SQLOperation: "UPDATE", OperationType: schema.Write, ProcedureName: "UpdateOrder"},
	})

	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Rows)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Info)
	assert.NoError(t, result.Err())
}

func TestValidateRows_MissingNames(t *testing.T) {
	result := ValidateRows([]schema.TableOperationRow{
		{TableName: "Orders", SQLOperation: "SELECT", ProcedureName: "GetOrders"},
		{TableName: " ", SQLOperation: "SELECT", ProcedureName: "GetOrders"},
		{TableName: "Orders", SQLOperation: "SELECT"},
	})

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "table_name is empty", result.Errors[0].Message)
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Equal(t, "procedure_name is empty", result.Errors[1].Message)

	err := result.Err()
	require.ErrorIs(t, err, extractor.ErrMalformedRow)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "2 errors")
}

func TestValidateRows_WarningsAndInfo(t *testing.T) {
	result := ValidateRows([]schema.TableOperationRow{
		{TableName: "Order Details", SQLOperation: "SELECT", OperationType: schema.Write, ProcedureName: "GetDetails"},
		{TableName: "Orders", SQLOperation: "EXEC", ProcedureName: "CallAudit"},
		{TableName: "Orders", SQLOperation: "EXEC", ProcedureName: "CallAudit"},
	})

	assert.True(t, result.Valid)

	types := func(list []ValidationError) []string {
		var out []string
		for _, e := range list {
			out = append(out, e.Type)
		}
		return out
	}
	assert.Equal(t, []string{"unclassified_operation", "unclassified_operation", "duplicate_row"}, types(result.Warnings))
	assert.Equal(t, []string{"name_normalized", "stale_operation_type"}, types(result.Info))
	assert.Equal(t, "same as row 2", result.Warnings[2].Message)
	assert.Equal(t, `table_name "Order Details" becomes "Order_Details"`, result.Info[0].Message)
}
