// Package sheets models the curated tabular sources: loosely-typed
// worksheets addressed by column name, grouped into workbooks. It loads
// workbooks from directories of CSV files and fetches worksheets from
// the Google Sheets CSV export endpoint.
package sheets

import "fmt"

// Table is one worksheet: a header row and string cells. Cells are
// loosely typed; null markers ("", "nan", "None") are passed through
// untouched and filtered downstream by the statement store.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table and its column index.
func NewTable(name string, columns []string, rows [][]string) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &Table{Name: name, Columns: columns, Rows: rows, index: index}
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Get returns the cell at (row, column), or "" when the column is
// unknown or the row is ragged. Missing cells read as blank so the
// exclusion filter downstream drops them.
func (t *Table) Get(row int, column string) string {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

// LookupByIndex scans for the first row whose indexColumn cell equals
// value and returns that row's wantColumn cell. The second result is
// false on a lookup miss; resolving misses is the caller's concern.
func (t *Table) LookupByIndex(indexColumn, value, wantColumn string) (string, bool) {
	for row := range t.Rows {
		if t.Get(row, indexColumn) == value {
			return t.Get(row, wantColumn), true
		}
	}
	return "", false
}

// Workbook is a named group of worksheets, iterated in load order.
type Workbook struct {
	Name string

	order  []string
	tables map[string]*Table
}

// NewWorkbook creates an empty workbook.
func NewWorkbook(name string) *Workbook {
	return &Workbook{Name: name, tables: make(map[string]*Table)}
}

// Add registers a worksheet, replacing any previous sheet of the same name.
func (w *Workbook) Add(t *Table) {
	if _, ok := w.tables[t.Name]; !ok {
		w.order = append(w.order, t.Name)
	}
	w.tables[t.Name] = t
}

// Table returns the named worksheet.
func (w *Workbook) Table(name string) (*Table, error) {
	t, ok := w.tables[name]
	if !ok {
		return nil, fmt.Errorf("workbook %s: no worksheet %q", w.Name, name)
	}
	return t, nil
}

// Sheets returns worksheet names in load order.
func (w *Workbook) Sheets() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}
