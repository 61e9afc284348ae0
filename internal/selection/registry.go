// =============================================================================
// Batch Paste - Column Selection Registry
// =============================================================================
//
// The registry keeps one inclusion map per schema: for each column, whether
// its content is carried into the transferred text. The maps are independent
// of any table and survive table rebuilds, so a user's column preferences
// carry over to new extraction results and schema switches.
//
// Unknown column ids are programming errors and panic.
//
// =============================================================================

package selection

import (
	"github.com/ginjaninja78/batchpaste/internal/schema"
)

// Registry holds the inclusion flags for every schema.
type Registry struct {
	included map[schema.Schema][]bool
}

// NewRegistry returns a registry initialised with each column's default
// inclusion flag.
func NewRegistry() *Registry {
	r := &Registry{included: make(map[schema.Schema][]bool, len(schema.All))}
	for _, s := range schema.All {
		r.ResetSchema(s)
	}
	return r
}

// ResetSchema restores the default inclusion flags for one schema.
func (r *Registry) ResetSchema(s schema.Schema) {
	cols := s.Columns()
	flags := make([]bool, len(cols))
	for i, c := range cols {
		flags[i] = c.DefaultIncluded
	}
	r.included[s] = flags
}

// Toggle flips the inclusion flag of a column and returns the new value.
func (r *Registry) Toggle(s schema.Schema, id string) bool {
	pos := s.Position(id)
	flags := r.included[s]
	flags[pos] = !flags[pos]
	return flags[pos]
}

// Set assigns the inclusion flag of a column.
func (r *Registry) Set(s schema.Schema, id string, include bool) {
	r.included[s][s.Position(id)] = include
}

// IsIncluded reports whether a column's content is transferred.
func (r *Registry) IsIncluded(s schema.Schema, id string) bool {
	return r.included[s][s.Position(id)]
}

// IncludedAt reports inclusion by column position.
func (r *Registry) IncludedAt(s schema.Schema, pos int) bool {
	return r.included[s][pos]
}

// IncludedColumns returns the included column ids in the schema's fixed
// order.
func (r *Registry) IncludedColumns(s schema.Schema) []string {
	flags := r.included[s]
	var ids []string
	for i, c := range s.Columns() {
		if flags[i] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Apply sets flags from a column id -> include map, such as one loaded from
// configuration. Unknown ids panic; validate user-supplied maps first.
func (r *Registry) Apply(s schema.Schema, flags map[string]bool) {
	for id, include := range flags {
		r.Set(s, id, include)
	}
}
