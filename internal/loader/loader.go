// Package loader reads survey spreadsheets into dataset tables.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avelanarius/surveyscope/internal/dataset"
)

// ErrEmptyTable is returned when a file yields zero columns or zero data rows.
var ErrEmptyTable = errors.New("file is empty or has no data")

// Load reads a survey file into a Table, dispatching on the extension.
// XLSX is the primary format; CSV is supported as a convenience.
func Load(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	default:
		return LoadXLSX(path)
	}
}

// LoadXLSX reads the first sheet of an XLSX file. The first row is the
// header (question names); the remaining rows are respondents.
func LoadXLSX(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only spreadsheet.
			_ = cerr
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTable
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return buildTable(rows)
}

// LoadCSV reads a CSV file with the first row as header.
func LoadCSV(path string) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only spreadsheet.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return buildTable(rows)
}

func buildTable(rows [][]string) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyTable
	}
	header := normalizeHeader(rows[0])
	if len(header) == 0 {
		return nil, ErrEmptyTable
	}
	table, err := dataset.NewTable(header, rows[1:])
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	return table, nil
}

// normalizeHeader keeps column names unique and non-empty: blank cells
// become "Unnamed: N" and duplicates get a numeric suffix.
func normalizeHeader(raw []string) []string {
	used := make(map[string]bool, len(raw))
	header := make([]string, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			for n := 1; used[name]; n++ {
				name = fmt.Sprintf("%s.%d", base, n)
			}
		}
		used[name] = true
		header[i] = name
	}
	return header
}
