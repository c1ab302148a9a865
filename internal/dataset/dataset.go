// Package dataset provides the in-memory survey table and row views.
package dataset

import (
	"fmt"
)

// Table is an immutable-once-built survey table: ordered, unique column
// names (questions) and rows of string cells. A cell is missing iff it is
// the empty string; the loader maps blank spreadsheet cells to "".
type Table struct {
	columns  []string
	colIndex map[string]int
	rows     [][]string
}

// NewTable builds a Table from a header and rows. Ragged rows are padded
// with missing cells or truncated to the column count.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}
	colIndex := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, ok := colIndex[name]; ok {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		colIndex[name] = i
	}

	normalized := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) == len(columns) {
			normalized[i] = row
			continue
		}
		padded := make([]string, len(columns))
		copy(padded, row)
		normalized[i] = padded
	}

	return &Table{
		columns:  append([]string(nil), columns...),
		colIndex: colIndex,
		rows:     normalized,
	}, nil
}

// View returns the full-table view in original row order.
func (t *Table) View() View {
	indices := make([]int, len(t.rows))
	for i := range indices {
		indices[i] = i
	}
	return View{table: t, indices: indices}
}

// View is an ordered subset of a Table's rows, held as indices into the
// parent. Narrowing produces a new View and never touches the Table.
type View struct {
	table   *Table
	indices []int
}

// IsZero reports whether the view is uninitialized (no table attached).
func (v View) IsZero() bool { return v.table == nil }

// Len returns the number of rows in the view.
func (v View) Len() int { return len(v.indices) }

// Columns returns the column names in file order.
func (v View) Columns() []string {
	if v.table == nil {
		return nil
	}
	return append([]string(nil), v.table.columns...)
}

// HasColumn reports whether a question name exists in the view.
func (v View) HasColumn(name string) bool {
	if v.table == nil {
		return false
	}
	_, ok := v.table.colIndex[name]
	return ok
}

// Cell returns the raw value at the given view row for a question.
// ok is false when the cell is missing or the row/question is unknown.
func (v View) Cell(row int, question string) (string, bool) {
	if v.table == nil || row < 0 || row >= len(v.indices) {
		return "", false
	}
	col, ok := v.table.colIndex[question]
	if !ok {
		return "", false
	}
	value := v.table.rows[v.indices[row]][col]
	if value == "" {
		return "", false
	}
	return value, true
}

// Narrow returns a new view of the rows for which keep returns true,
// preserving row order.
func (v View) Narrow(keep func(row int) bool) View {
	kept := make([]int, 0, len(v.indices))
	for i, idx := range v.indices {
		if keep(i) {
			kept = append(kept, idx)
		}
	}
	return View{table: v.table, indices: kept}
}

// Equal reports whether two views expose the same rows of the same table
// in the same order.
func (v View) Equal(other View) bool {
	if v.table != other.table || len(v.indices) != len(other.indices) {
		return false
	}
	for i := range v.indices {
		if v.indices[i] != other.indices[i] {
			return false
		}
	}
	return true
}
