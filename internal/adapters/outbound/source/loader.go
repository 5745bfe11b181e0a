// Package source loads dataset snapshots from tabular files, coercing
// values to the configured column types. It is the ETL collaborator: it
// tolerates missing columns (the validator reports them) and never fails
// on malformed cell values, which coerce to null.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

// ErrUnsupportedFormat is returned for source files that are neither CSV
// nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported source file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Loader implements domain.SnapshotSource over local files.
type Loader struct {
	baseDir string
}

// New creates a loader resolving relative source paths against baseDir.
func New(baseDir string) *Loader {
	return &Loader{baseDir: baseDir}
}

// Load reads the configured source file and returns a snapshot containing
// the configured columns that are present, in declaration order. The row
// count is the number of data rows regardless of which columns exist.
func (l *Loader) Load(cfg domain.PipelineConfig) (*domain.Snapshot, error) {
	path := cfg.SourcePath
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}

	var (
		header []string
		rows   [][]string
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		header, rows, err = readCSV(path)
	case ".xlsx":
		header, rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var columns []domain.Column
	for _, rule := range cfg.Columns {
		pos, ok := index[rule.Name]
		if !ok {
			continue
		}
		columns = append(columns, buildColumn(rule, rows, pos))
	}

	return domain.NewSnapshot(len(rows), columns...), nil
}

func readCSV(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "read", Path: path, Err: err}
	}
	data = bytes.TrimPrefix(data, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// buildColumn coerces one raw column to its configured type. Cells that
// fail numeric parsing become nulls, matching the permissive coercion of
// the loader contract.
func buildColumn(rule domain.ColumnRule, rows [][]string, pos int) domain.Column {
	col := domain.Column{
		Name:  rule.Name,
		Type:  rule.Type,
		Nulls: make([]bool, len(rows)),
	}
	if rule.Type.IsNumeric() {
		col.Floats = make([]float64, len(rows))
	} else {
		col.Strings = make([]string, len(rows))
	}

	for i, row := range rows {
		raw := ""
		if pos < len(row) {
			raw = strings.TrimSpace(row[pos])
		}
		if isNullToken(raw) {
			col.Nulls[i] = true
			continue
		}

		if rule.Type.IsNumeric() {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				col.Nulls[i] = true
				continue
			}
			if rule.Type == domain.ColumnInt {
				v = float64(int64(v))
			}
			col.Floats[i] = v
		} else {
			col.Strings[i] = raw
		}
	}
	return col
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}
