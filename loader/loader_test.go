package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/sprocmap/schema"
)

func TestReadRowsCSV(t *testing.T) {
	in := "table_name,sql_operation,operation_type,procedure_name\n" +
		"Orders,SELECT,READ,GetOrders\n" +
		"Order Details,INSERT,,Add Order\n"

	rows, err := ReadRowsCSV(strings.NewReader(in), ',')
	require.NoError(t, err)

	assert.Equal(t, []schema.TableOperationRow{
		{TableName: "Orders", SQLOperation: "SELECT", OperationType: schema.Read, ProcedureName: "GetOrders"},
		{TableName: "Order Details", SQLOperation: "INSERT", ProcedureName: "Add Order"},
	}, rows)
}

func TestReadRowsCSV_KeepsSpacesInNames(t *testing.T) {
	in := " table_name , sql_operation ,procedure_name\n" +
		"Order Details , INSERT ,  AddOrder\n"

	rows, err := ReadRowsCSV(strings.NewReader(in), ',')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Order Details ", rows[0].TableName)
	assert.Equal(t, "INSERT", rows[0].SQLOperation)
	assert.Equal(t, "  AddOrder", rows[0].ProcedureName)
}

func TestReadRowsCSV_OptionalOperationTypeAndOrder(t *testing.T) {
	in := "procedure_name,table_name,sql_operation,notes\n" +
		"GetOrders,Orders,SELECT,from llm\n"

	rows, err := ReadRowsCSV(strings.NewReader(in), ',')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GetOrders", rows[0].ProcedureName)
	assert.Equal(t, "Orders", rows[0].TableName)
	assert.Empty(t, rows[0].OperationType)
}

func TestReadRowsCSV_MissingColumn(t *testing.T) {
	_, err := ReadRowsCSV(strings.NewReader("table_name,sql_operation\nOrders,SELECT\n"), ',')
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "procedure_name")

	_, err = ReadRowsCSV(strings.NewReader(""), ',')
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseRowsYAML(t *testing.T) {
	in := `
procedures:
  - name: Sales by Year
    tables:
      - name: Orders
        operation: SELECT
      - name: Order Details
        operation: SELECT
  - name: AddOrder
    tables:
      - name: Orders
        operation: INSERT
rows:
  - table_name: Customers
    sql_operation: UPDATE
    operation_type: WRITE
    procedure_name: SaveCustomer
`
	rows, err := ParseRowsYAML([]byte(in))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, schema.TableOperationRow{TableName: "Orders", SQLOperation: "SELECT", ProcedureName: "Sales by Year"}, rows[0])
	assert.Equal(t, "Order Details", rows[1].TableName)
	assert.Equal(t, "AddOrder", rows[2].ProcedureName)
	assert.Equal(t, schema.TableOperationRow{TableName: "Customers", SQLOperation: "UPDATE", OperationType: schema.Write, ProcedureName: "SaveCustomer"}, rows[3])
}

func TestParseRowsYAML_Invalid(t *testing.T) {
	_, err := ParseRowsYAML([]byte("procedures: [unclosed"))
	assert.Error(t, err)
}

func TestLoadRows(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "tables_to_procs_cache.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("table_name,sql_operation,procedure_name\nOrders,DELETE,DropOrder\n"), 0644))
	tsvPath := filepath.Join(dir, "rows.tsv")
	require.NoError(t, os.WriteFile(tsvPath, []byte("table_name\tsql_operation\tprocedure_name\nOrders\tDELETE\tDropOrder\n"), 0644))
	yamlPath := filepath.Join(dir, "rows.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("procedures:\n  - name: DropOrder\n    tables:\n      - name: Orders\n        operation: DELETE\n"), 0644))

	want := []schema.TableOperationRow{{TableName: "Orders", SQLOperation: "DELETE", ProcedureName: "DropOrder"}}
	for _, path := range []string{csvPath, tsvPath, yamlPath} {
		rows, err := LoadRows(path, "")
		require.NoError(t, err, path)
		assert.Equal(t, want, rows, path)
	}

	_, err := LoadRows(csvPath, "xlsx")
	assert.Error(t, err)

	_, err = LoadRows(filepath.Join(dir, "missing.csv"), "")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "yaml", FormatFromPath("x.YAML"))
	assert.Equal(t, "yaml", FormatFromPath("x.yml"))
	assert.Equal(t, "tsv", FormatFromPath("x.tsv"))
	assert.Equal(t, "csv", FormatFromPath("x.csv"))
	assert.Equal(t, "csv", FormatFromPath("x"))
}
