package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ridoystarlord/sprocmap/schema"
)

var ErrMissingColumn = errors.New("extraction table is missing a required column")


// LoadRowsFromCSV reads an extraction table with a header row. Columns are
// located by name, so their order does not matter and extra columns are ignored.
func LoadRowsFromCSV(filename string, delimiter rune) ([]schema.TableOperationRow, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("reading extraction file: %w", err)
	}
	defer f.Close()
	return ReadRowsCSV(f, delimiter)
}

func ReadRowsCSV(r io.Reader, delimiter rune) ([]schema.TableOperationRow, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range schema.ExtractionColumns {
		if col == schema.ColOperationType {
			continue
		}
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	// Names are kept byte for byte; normalization decides what their spaces become.
	get := func(record []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []schema.TableOperationRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		rows = append(rows, schema.TableOperationRow{
			TableName:     get(record, schema.ColTableName),
			SQLOperation:  strings.TrimSpace(get(record, schema.ColSQLOperation)),
			OperationType: schema.OperationType(strings.TrimSpace(get(record, schema.ColOperationType))),
			ProcedureName: get(record, schema.ColProcedureName),
		})
	}
	return rows, nil
}

// FormatFromPath infers the extraction format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".tsv":
		return "tsv"
	default:
		return "csv"
	}
}

// LoadRows reads an extraction file in the given format: csv, tsv or yaml.
// An empty format is inferred from the file extension.
func LoadRows(path, format string) ([]schema.TableOperationRow, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	switch format {
	case "csv":
		return LoadRowsFromCSV(path, ',')
	case "tsv":
		return LoadRowsFromCSV(path, '\t')
	case "yaml":
		return LoadRowsFromYAML(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (csv, tsv, yaml)", format)
	}
}
