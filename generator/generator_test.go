package generator

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/sprocmap/schema"
)

var orders = schema.ServiceDefinition{
	ServiceName: "Orders",
	Procs:       []string{"GetOrders", "UpdateOrder"},
	ReadTables:  []string{"Orders"},
	WriteTables: []string{"Orders", "Order_Audit"},
}

func TestPlantUML(t *testing.T) {
	out, err := PlantUML(orders)
	require.NoError(t, err)

	assert.Contains(t, out, `@startuml "Orders"`)
	assert.Contains(t, out, "class Orders <<domain service>> {\n  + GetOrders() <<api>>\n  + UpdateOrder() <<api>>\n}")
	assert.Contains(t, out, "package \"Orders_PROCS\" {\n  class GetOrders <<proc>> {\n  }\n  class UpdateOrder <<proc>> {\n  }\n}")
	assert.Contains(t, out, "package \"Orders_READS\" {\n  class Orders <<table>> {\n  }\n}")
	assert.Contains(t, out, "class Order_Audit <<table>>")
	assert.Contains(t, out, `"Orders_PROCS" --> "Orders_WRITES" : writes`)
	assert.Contains(t, out, "@enduml\n")
}

func TestPlantUML_SentinelName(t *testing.T) {
	out, err := PlantUML(schema.ServiceDefinition{ServiceName: schema.NoNameService})
	require.NoError(t, err)

	assert.Contains(t, out, `@startuml "Service With No Name"`)
	assert.Contains(t, out, "class Service_With_No_Name <<domain service>> {\n}")
	assert.Contains(t, out, "package \"Service_With_No_Name_READS\" {\n}")
}

func TestMermaid(t *testing.T) {
	out, err := Mermaid(orders)
	require.NoError(t, err)

	assert.Contains(t, out, "title: Orders\n")
	assert.Contains(t, out, "classDiagram\n  class Orders {\n    <<domain service>>\n    +GetOrders()\n    +UpdateOrder()\n  }")
	assert.Contains(t, out, "class proc_GetOrders[\"GetOrders\"] {\n    <<proc>>\n  }\n  Orders --> proc_GetOrders : calls")
	assert.Contains(t, out, "Orders ..> read_Orders : reads")
	assert.Contains(t, out, "Orders ..> write_Order_Audit : writes")
}

func TestWriteDiagrams(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	defs := []schema.ServiceDefinition{
		orders,
		{ServiceName: "Orders", Procs: []string{"PurgeOrders"}, WriteTables: []string{"Orders"}},
		{ServiceName: schema.NoNameService},
	}

	paths, err := WriteDiagrams(dir, defs, FormatAll)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Orders.puml"),
		filepath.Join(dir, "Orders.mmd"),
		filepath.Join(dir, "Orders_2.puml"),
		filepath.Join(dir, "Orders_2.mmd"),
		filepath.Join(dir, "Service With No Name.puml"),
		filepath.Join(dir, "Service With No Name.mmd"),
	}, paths)

	content, err := os.ReadFile(filepath.Join(dir, "Orders_2.puml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "class PurgeOrders <<proc>>")
}

func TestWriteDiagrams_UnknownFormat(t *testing.T) {
	_, err := WriteDiagrams(t.TempDir(), []schema.ServiceDefinition{orders}, "png")
	assert.ErrorContains(t, err, "unsupported diagram format")
}

func TestWriteJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []schema.ServiceDefinition{orders}))

	var fromJSON []schema.ServiceDefinition
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, []schema.ServiceDefinition{orders}, fromJSON)

	buf.Reset()
	require.NoError(t, WriteYAML(&buf, []schema.ServiceDefinition{orders}))
	assert.Contains(t, buf.String(), "- service_name: Orders\n")

	var fromYAML []schema.ServiceDefinition
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, []schema.ServiceDefinition{orders}, fromYAML)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
