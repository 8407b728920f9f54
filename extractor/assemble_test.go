package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/sprocmap/schema"
)

func named(table, proc string, op schema.OperationType, label int, service string) schema.TableOperationRow {
	return schema.TableOperationRow{
		TableName:     table,
		ProcedureName: proc,
		OperationType: op,
		ClusterLabel:  label,
		ServiceName:   service,
	}
}

func TestAssemble(t *testing.T) {
	rows := []schema.TableOperationRow{
		named("Orders", "UpdateOrder", schema.Write, 2, "Orders"),
		named("Customers", "GetCustomer", schema.Read, 0, "Customers"),
		named("Orders", "UpdateOrder", schema.Read, 2, "Orders"),
		named("Order_Details", "UpdateOrder", schema.Write, 2, "Orders"),
		named("Orders", "AddOrder", schema.Write, 2, "Orders"),
		named("Customers", "CallAudit", schema.None, 0, "Customers"),
	}

	defs, err := Assemble(rows)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, schema.ServiceDefinition{
		ServiceName: "Orders",
		Procs:       []string{"UpdateOrder", "AddOrder"},
		ReadTables:  []string{"Orders"},
		WriteTables: []string{"Orders", "Order_Details"},
	}, defs[0])

	assert.Equal(t, schema.ServiceDefinition{
		ServiceName: "Customers",
		Procs:       []string{"GetCustomer", "CallAudit"},
		ReadTables:  []string{"Customers"},
		WriteTables: []string{},
	}, defs[1])
}

func TestAssemble_Completeness(t *testing.T) {
	computed, err := Compute(sampleRows(), Options{NumberOfClusters: 3, Seed: seed(11)})
	require.NoError(t, err)

	defs, err := Assemble(computed)
	require.NoError(t, err)

	// definitions come out in first-seen label order
	byLabel := map[int]schema.ServiceDefinition{}
	for _, r := range computed {
		if _, ok := byLabel[r.ClusterLabel]; !ok {
			byLabel[r.ClusterLabel] = defs[len(byLabel)]
		}
	}
	require.Len(t, byLabel, len(defs))

	for _, r := range computed {
		def := byLabel[r.ClusterLabel]
		assert.Equal(t, r.ServiceName, def.ServiceName)
		assert.Contains(t, def.Procs, r.ProcedureName)
		switch r.OperationType {
		case schema.Read:
			assert.Contains(t, def.ReadTables, r.TableName)
		case schema.Write:
			assert.Contains(t, def.WriteTables, r.TableName)
		}
	}
}

func TestAssemble_Empty(t *testing.T) {
	defs, err := Assemble(nil)
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestAssemble_RejectsHandEditedGarbage(t *testing.T) {
	_, err := Assemble([]schema.TableOperationRow{named("Orders", "GetOrders", schema.Read, -1, "Orders")})
	require.ErrorIs(t, err, ErrMalformedRow)

	_, err = Assemble([]schema.TableOperationRow{named("Orders", "", schema.Read, 0, "Orders")})
	require.ErrorIs(t, err, ErrMalformedRow)

	_, err = Assemble([]schema.TableOperationRow{named("Orders", "GetOrders", schema.Read, 0, "")})
	require.ErrorIs(t, err, ErrMalformedRow)
}
