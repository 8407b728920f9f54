package extractor

import "github.com/ridoystarlord/sprocmap/schema"

// Compute runs normalization, classification, clustering and naming over rows
// and returns the resulting table. rows is left untouched.
func Compute(rows []schema.TableOperationRow, opts Options) ([]schema.TableOperationRow, error) {
	normalized, err := NormalizeRows(rows)
	if err != nil {
		return nil, stageErr(StageNormalization, err)
	}

	clustered, err := Cluster(ClassifyRows(normalized), opts)
	if err != nil {
		return nil, stageErr(StageClustering, err)
	}

	named, err := NameServices(clustered)
	if err != nil {
		return nil, stageErr(StageNaming, err)
	}
	return named, nil
}

// Extract computes service definitions from raw extraction rows.
func Extract(rows []schema.TableOperationRow, opts Options) ([]schema.ServiceDefinition, error) {
	computed, err := Compute(rows, opts)
	if err != nil {
		return nil, err
	}
	defs, err := Assemble(computed)
	if err != nil {
		return nil, stageErr(StageAssembly, err)
	}
	return defs, nil
}
