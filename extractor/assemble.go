package extractor

import (
	"fmt"

	"github.com/ridoystarlord/sprocmap/schema"
)

// Assemble folds named, clustered rows into one ServiceDefinition per
// cluster label, in the order labels first appear. Procedure and table lists
// keep first-appearance order and hold each name once.
func Assemble(rows []schema.TableOperationRow) ([]schema.ServiceDefinition, error) {
	type group struct {
		def    schema.ServiceDefinition
		procs  map[string]bool
		reads  map[string]bool
		writes map[string]bool
	}

	var order []int
	groups := map[int]*group{}
	for i, r := range rows {
		if r.ClusterLabel < 0 {
			return nil, fmt.Errorf("%w: row %d has negative %s %d", ErrMalformedRow, i+1, schema.ColClusterLabel, r.ClusterLabel)
		}
		if r.ProcedureName == "" {
			return nil, fmt.Errorf("%w: row %d has no %s", ErrMalformedRow, i+1, schema.ColProcedureName)
		}

		g, ok := groups[r.ClusterLabel]
		if !ok {
			if r.ServiceName == "" {
				return nil, fmt.Errorf("%w: row %d has no %s", ErrMalformedRow, i+1, schema.ColServiceName)
			}
			g = &group{
				def: schema.ServiceDefinition{
					ServiceName: r.ServiceName,
					Procs:       []string{},
					ReadTables:  []string{},
					WriteTables: []string{},
				},
				procs:  map[string]bool{},
				reads:  map[string]bool{},
				writes: map[string]bool{},
			}
			groups[r.ClusterLabel] = g
			order = append(order, r.ClusterLabel)
		}

		if !g.procs[r.ProcedureName] {
			g.procs[r.ProcedureName] = true
			g.def.Procs = append(g.def.Procs, r.ProcedureName)
		}
		switch r.OperationType {
		case schema.Read:
			if !g.reads[r.TableName] {
				g.reads[r.TableName] = true
				g.def.ReadTables = append(g.def.ReadTables, r.TableName)
			}
		case schema.Write:
			if !g.writes[r.TableName] {
				g.writes[r.TableName] = true
				g.def.WriteTables = append(g.def.WriteTables, r.TableName)
			}
		}
	}

	defs := make([]schema.ServiceDefinition, 0, len(order))
	for _, label := range order {
		defs = append(defs, groups[label].def)
	}
	return defs, nil
}
