// Package table reads tabular asset registries into typed cells.
//
// A Table is a header row plus data rows; cells hold nil (missing), int64,
// float64, bool or string values, inferred the same way for every supported
// file format.
package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither workbooks nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported table format")
	// ErrMissingColumn is returned when a required column header is absent.
	ErrMissingColumn = errors.New("missing column")
)

// Table is an in-memory copy of one sheet.
type Table struct {
	Path    string
	Headers []string

	index map[string]int
	rows  [][]any
}

// New builds a table from headers and rows. Blank headers become
// "Unnamed: N" and repeated headers get a ".N" suffix, so every header is
// unique.
func New(path string, headers []string, rows [][]any) *Table {
	t := &Table{
		Path:    path,
		Headers: make([]string, len(headers)),
		index:   make(map[string]int, len(headers)),
		rows:    rows,
	}
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for {
			n, dup := seen[name]
			if !dup {
				break
			}
			seen[h] = n + 1
			name = fmt.Sprintf("%s.%d", h, n+1)
		}
		seen[name] = 0
		t.Headers[i] = name
		t.index[name] = i
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) Row {
	return Row{t: t, idx: i}
}

// HasColumn reports whether header exists.
func (t *Table) HasColumn(header string) bool {
	_, ok := t.index[header]
	return ok
}

// Require returns ErrMissingColumn naming the first absent header.
func (t *Table) Require(headers ...string) error {
	for _, h := range headers {
		if !t.HasColumn(h) {
			return fmt.Errorf("%w: %q in %s", ErrMissingColumn, h, t.Path)
		}
	}
	return nil
}

// Row is a view of a single data row.
type Row struct {
	t   *Table
	idx int
}

// Index is the zero-based position of the row among data rows.
func (r Row) Index() int {
	return r.idx
}

// Get returns the cell under header, or nil when the column is absent or
// the row is shorter than the header.
func (r Row) Get(header string) any {
	col, ok := r.t.index[header]
	if !ok {
		return nil
	}
	cells := r.t.rows[r.idx]
	if col >= len(cells) {
		return nil
	}
	return cells[col]
}

// Values returns every cell keyed by header.
func (r Row) Values() map[string]any {
	out := make(map[string]any, len(r.t.Headers))
	for _, h := range r.t.Headers {
		out[h] = r.Get(h)
	}
	return out
}
