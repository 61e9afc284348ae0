// =============================================================================
// Batch Paste - Rows and Tables
// =============================================================================
//
// A Row is an ordered, fixed set of string fields laid out by its schema.
// Numeric values are stored as formatted strings so that user-visible
// formatting (for example "1,00") survives untouched until transfer.
//
// A Table is an ordered sequence of rows that all share one schema.
//
// =============================================================================

package records

import (
	"fmt"

	"github.com/ginjaninja78/batchpaste/internal/schema"
)

// Row holds the field values of one table row.
type Row struct {
	schema schema.Schema
	values []string
}

// NewRow returns an empty row for the given schema.
func NewRow(s schema.Schema) Row {
	return Row{schema: s, values: make([]string, s.Width())}
}

// Schema returns the row's layout.
func (r *Row) Schema() schema.Schema {
	return r.schema
}

// Get returns the value of a column. Unknown ids panic.
func (r *Row) Get(id string) string {
	return r.values[r.schema.Position(id)]
}

// Set assigns the value of a column. Unknown ids panic.
func (r *Row) Set(id, value string) {
	r.values[r.schema.Position(id)] = value
}

// At returns the value at a column position.
func (r *Row) At(pos int) string {
	return r.values[pos]
}

// Values returns a copy of the row's values in column order.
func (r *Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Table is an ordered sequence of rows of a single schema.
type Table struct {
	schema schema.Schema
	rows   []Row
}

// NewTable returns an empty table for the given schema.
func NewTable(s schema.Schema) *Table {
	return &Table{schema: s}
}

// Schema returns the table's layout.
func (t *Table) Schema() schema.Schema {
	return t.schema
}

// Len returns the number of rows. A nil table has no rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Append adds a row. The row must share the table's schema.
func (t *Table) Append(r Row) {
	if r.schema != t.schema {
		panic(fmt.Sprintf("records: appending %s row to %s table", r.schema.Code(), t.schema.Code()))
	}
	t.rows = append(t.rows, r)
}

// Row returns the row at index i.
func (t *Table) Row(i int) (*Row, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range (table has %d rows)", i+1, len(t.rows))
	}
	return &t.rows[i], nil
}

// Rows returns the rows in [start, end).
func (t *Table) Rows(start, end int) []Row {
	return t.rows[start:end]
}
