package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ridoystarlord/sprocmap/schema"
)

// encodeRow lays a row out in schema.CacheColumns order.
func encodeRow(r schema.TableOperationRow) []string {
	return []string{
		r.TableName,
		r.SQLOperation,
		string(r.OperationType),
		r.ProcedureName,
		r.CombinedFeature,
		strconv.Itoa(r.ClusterLabel),
		r.ServiceName,
	}
}

// columnIndex maps every cache column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range schema.CacheColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrCacheSchema, strings.Join(missing, ", "))
	}
	return idx, nil
}

// decodeRow reads a record laid out as described by idx.
func decodeRow(record []string, idx map[string]int) (schema.TableOperationRow, error) {
	get := func(col string) string {
		if i := idx[col]; i < len(record) {
			return record[i]
		}
		return ""
	}

	label, err := strconv.Atoi(strings.TrimSpace(get(schema.ColClusterLabel)))
	if err != nil {
		return schema.TableOperationRow{}, fmt.Errorf("invalid %s %q", schema.ColClusterLabel, get(schema.ColClusterLabel))
	}

	return schema.TableOperationRow{
		TableName:       get(schema.ColTableName),
		SQLOperation:    get(schema.ColSQLOperation),
		OperationType:   schema.OperationType(get(schema.ColOperationType)),
		ProcedureName:   get(schema.ColProcedureName),
		CombinedFeature: get(schema.ColCombinedFeature),
		ClusterLabel:    label,
		ServiceName:     get(schema.ColServiceName),
	}, nil
}
