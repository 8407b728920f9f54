package loader

import (
	"fmt"
	"os"

	"github.com/ridoystarlord/sprocmap/schema"
	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Procedures []yamlProcedure `yaml:"procedures"`
	Rows       []yamlRow       `yaml:"rows"`
}

type yamlProcedure struct {
	Name   string      `yaml:"name"`
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name      string `yaml:"name"`
	Operation string `yaml:"operation"`
}

type yamlRow struct {
	TableName     string `yaml:"table_name"`
	SQLOperation  string `yaml:"sql_operation"`
	OperationType string `yaml:"operation_type"`
	ProcedureName string `yaml:"procedure_name"`
}

// LoadRowsFromYAML reads extraction rows grouped per procedure, as flat rows,
// or both. Grouped procedures come first.
func LoadRowsFromYAML(filename string) ([]schema.TableOperationRow, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading extraction file: %w", err)
	}
	return ParseRowsYAML(data)
}

func ParseRowsYAML(data []byte) ([]schema.TableOperationRow, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	var rows []schema.TableOperationRow
	for _, p := range yf.Procedures {
		for _, t := range p.Tables {
			rows = append(rows, schema.TableOperationRow{
				TableName:     t.Name,
				SQLOperation:  t.Operation,
				ProcedureName: p.Name,
			})
		}
	}
	for _, r := range yf.Rows {
		rows = append(rows, schema.TableOperationRow{
			TableName:     r.TableName,
			SQLOperation:  r.SQLOperation,
			OperationType: schema.OperationType(r.OperationType),
			ProcedureName: r.ProcedureName,
		})
	}

	return rows, nil
}
