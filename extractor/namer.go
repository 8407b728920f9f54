package extractor

import (
	"fmt"

	"github.com/ridoystarlord/sprocmap/schema"
)

// NameCluster picks a service name for the rows of one cluster. It prefers the
// table written to most often, then the table touched most often, and falls
// back to schema.NoNameService for an empty cluster. Ties go to the table
// seen first.
func NameCluster(rows []schema.TableOperationRow) string {
	var written []string
	for _, r := range rows {
		if r.OperationType == schema.Write {
			written = append(written, r.TableName)
		}
	}
	if len(written) > 0 {
		return mostFrequent(written)
	}
	if len(rows) > 0 {
		all := make([]string, len(rows))
		for i, r := range rows {
			all[i] = r.TableName
		}
		return mostFrequent(all)
	}
	return schema.NoNameService
}

// NameServices derives one name per cluster label and copies it onto every
// row carrying that label. A cluster whose rows carry no table names cannot
// be named.
func NameServices(rows []schema.TableOperationRow) ([]schema.TableOperationRow, error) {
	out := schema.CloneRows(rows)

	var labels []int
	byLabel := map[int][]schema.TableOperationRow{}
	for _, r := range out {
		if _, ok := byLabel[r.ClusterLabel]; !ok {
			labels = append(labels, r.ClusterLabel)
		}
		byLabel[r.ClusterLabel] = append(byLabel[r.ClusterLabel], r)
	}

	names := make(map[int]string, len(byLabel))
	for _, label := range labels {
		name := NameCluster(byLabel[label])
		if name == "" {
			return nil, fmt.Errorf("%w: cluster %d has no %s to name it after", ErrMalformedRow, label, schema.ColTableName)
		}
		names[label] = name
	}
	for i := range out {
		out[i].ServiceName = names[out[i].ClusterLabel]
	}
	return out, nil
}

func mostFrequent(values []string) string {
	counts := map[string]int{}
	var order []string
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}
