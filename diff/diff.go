package diff

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/sprocmap/schema"
)

type OperationType string

const (
	AddService     OperationType = "ADD_SERVICE"
	DropService    OperationType = "DROP_SERVICE"
	AddProcedure   OperationType = "ADD_PROCEDURE"
	DropProcedure  OperationType = "DROP_PROCEDURE"
	MoveProcedure  OperationType = "MOVE_PROCEDURE"
	AddReadTable   OperationType = "ADD_READ_TABLE"
	DropReadTable  OperationType = "DROP_READ_TABLE"
	AddWriteTable  OperationType = "ADD_WRITE_TABLE"
	DropWriteTable OperationType = "DROP_WRITE_TABLE"
)

type Operation struct {
	Type        OperationType
	ServiceName string   // for service and table operations
	Procedure   string   // for procedure operations
	TableName   string   // for table operations
	From        []string // services holding Procedure before
	To          []string // services holding Procedure after
}

func (op Operation) String() string {
	switch op.Type {
	case AddService, DropService:
		return fmt.Sprintf("%s %s", op.Type, op.ServiceName)
	case AddProcedure:
		return fmt.Sprintf("%s %s -> %s", op.Type, op.Procedure, strings.Join(op.To, ", "))
	case DropProcedure:
		return fmt.Sprintf("%s %s (was in %s)", op.Type, op.Procedure, strings.Join(op.From, ", "))
	case MoveProcedure:
		return fmt.Sprintf("%s %s: %s -> %s", op.Type, op.Procedure, strings.Join(op.From, ", "), strings.Join(op.To, ", "))
	default:
		return fmt.Sprintf("%s %s.%s", op.Type, op.ServiceName, op.TableName)
	}
}

// service merges every definition sharing a name; clusters may collide on names.
type service struct {
	name        string
	readTables  []string
	writeTables []string
}

func index(defs []schema.ServiceDefinition) ([]*service, map[string]*service, []string, map[string][]string) {
	var order []*service
	byName := map[string]*service{}
	var procOrder []string
	procs := map[string][]string{}

	for _, d := range defs {
		s, ok := byName[d.ServiceName]
		if !ok {
			s = &service{name: d.ServiceName}
			byName[d.ServiceName] = s
			order = append(order, s)
		}
		s.readTables = appendUnique(s.readTables, d.ReadTables...)
		s.writeTables = appendUnique(s.writeTables, d.WriteTables...)

		for _, p := range d.Procs {
			if _, seen := procs[p]; !seen {
				procOrder = append(procOrder, p)
			}
			procs[p] = appendUnique(procs[p], d.ServiceName)
		}
	}
	return order, byName, procOrder, procs
}

// DiffServices lists what changed going from old to new. Services are
// matched by name. A procedure that sits in different services afterwards
// is reported as moved.
func DiffServices(old, new []schema.ServiceDefinition) []Operation {
	var ops []Operation

	oldOrder, oldByName, oldProcOrder, oldProcs := index(old)
	newOrder, newByName, newProcOrder, newProcs := index(new)

	// Services present afterwards: new, or compare their tables
	for _, s := range newOrder {
		prev, exists := oldByName[s.name]
		if !exists {
			ops = append(ops, Operation{Type: AddService, ServiceName: s.name})
			continue
		}
		ops = append(ops, tableOps(s.name, AddReadTable, s.readTables, prev.readTables)...)
		ops = append(ops, tableOps(s.name, DropReadTable, prev.readTables, s.readTables)...)
		ops = append(ops, tableOps(s.name, AddWriteTable, s.writeTables, prev.writeTables)...)
		ops = append(ops, tableOps(s.name, DropWriteTable, prev.writeTables, s.writeTables)...)
	}

	for _, s := range oldOrder {
		if _, exists := newByName[s.name]; !exists {
			ops = append(ops, Operation{Type: DropService, ServiceName: s.name})
		}
	}

	for _, p := range oldProcOrder {
		to, exists := newProcs[p]
		if !exists {
			ops = append(ops, Operation{Type: DropProcedure, Procedure: p, From: oldProcs[p]})
			continue
		}
		if !sameSet(oldProcs[p], to) {
			ops = append(ops, Operation{Type: MoveProcedure, Procedure: p, From: oldProcs[p], To: to})
		}
	}

	for _, p := range newProcOrder {
		if _, exists := oldProcs[p]; !exists {
			ops = append(ops, Operation{Type: AddProcedure, Procedure: p, To: newProcs[p]})
		}
	}

	return ops
}

// tableOps emits op for every table in have that is missing from other.
func tableOps(serviceName string, op OperationType, have, other []string) []Operation {
	var ops []Operation
	for _, t := range have {
		if !contains(other, t) {
			ops = append(ops, Operation{Type: op, ServiceName: serviceName, TableName: t})
		}
	}
	return ops
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !contains(b, v) {
			return false
		}
	}
	return true
}
