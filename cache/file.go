package cache

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ridoystarlord/sprocmap/schema"
)

// DefaultFilePath is where the file store keeps its table unless told otherwise.
const DefaultFilePath = "./results/service_candidates_cache.csv"

// FileStore keeps the table as a delimited text file with a header row.
type FileStore struct {
	Path      string
	Delimiter rune
}

func NewFileStore(path string, delimiter rune) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &FileStore{Path: path, Delimiter: delimiter}
}

func (f *FileStore) Load(ctx context.Context) ([]schema.TableOperationRow, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = f.Delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file has no header", ErrCacheSchema)
		}
		return nil, fmt.Errorf("read cache header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []schema.TableOperationRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read cache line %d: %w", line, err)
		}
		row, err := decodeRow(record, idx)
		if err != nil {
			return nil, fmt.Errorf("cache line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *FileStore) Save(ctx context.Context, rows []schema.TableOperationRow) (err error) {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	writer := csv.NewWriter(file)
	writer.Comma = f.Delimiter
	if err := writer.Write(schema.CacheColumns); err != nil {
		return fmt.Errorf("write cache header: %w", err)
	}
	for _, r := range rows {
		if err := writer.Write(encodeRow(r)); err != nil {
			return fmt.Errorf("write cache row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

func (f *FileStore) Describe() string {
	return "file " + f.Path
}
