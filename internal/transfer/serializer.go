// =============================================================================
// Batch Paste - Transfer Serializer
// =============================================================================
//
// The serializer turns the next batch of table rows into a tab/newline
// delimited block that the ERP grid accepts as a multi-row paste.
//
// OUTPUT LAYOUT:
//   - Every column keeps its positional slot in the schema's full order.
//     An excluded column is emitted as an empty field, never removed, so
//     the pasted block stays aligned with the ERP's rigid grid.
//   - Structural columns (Column.OmitWhenExcluded) are the exception: when
//     excluded they are dropped from the row entirely.
//   - Fields are trimmed, joined with '\t'; rows joined with '\n'; no
//     trailing delimiter.
//
// =============================================================================

package transfer

import (
	"strings"

	"github.com/ginjaninja78/batchpaste/internal/batch"
	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
)

// SerializeNextBatch serializes the next batch of up to size rows and
// advances the cursor past them. It returns the text and the number of rows
// consumed. When nothing is left it returns ("", 0) and leaves the cursor
// untouched; callers treat that as a no-op, not an error.
func SerializeNextBatch(t *records.Table, reg *selection.Registry, cursor *batch.Cursor, size int) (string, int) {
	rng := cursor.NextRange(t, batch.EffectiveSize(size))
	if rng.Empty() {
		return "", 0
	}

	text := SerializeRows(t.Schema(), t.Rows(rng.Start, rng.End), reg)
	cursor.Advance(t, rng.Len())
	return text, rng.Len()
}

// SerializeRows serializes rows without touching any cursor.
func SerializeRows(s schema.Schema, rows []records.Row, reg *selection.Registry) string {
	var b strings.Builder
	for i := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(Fields(&rows[i], reg), "\t"))
	}
	return b.String()
}

// Fields returns the serialized fields of one row under the registry's
// inclusion map.
func Fields(row *records.Row, reg *selection.Registry) []string {
	s := row.Schema()
	cols := s.Columns()
	fields := make([]string, 0, len(cols))
	for _, c := range cols {
		included := reg.IncludedAt(s, c.Position)
		switch {
		case included:
			fields = append(fields, strings.TrimSpace(row.At(c.Position)))
		case c.OmitWhenExcluded:
			// structural column: no slot
		default:
			fields = append(fields, "")
		}
	}
	return fields
}

// FieldCount returns the number of fields each serialized row carries:
// the full width minus the excluded structural columns.
func FieldCount(s schema.Schema, reg *selection.Registry) int {
	n := 0
	for _, c := range s.Columns() {
		if c.OmitWhenExcluded && !reg.IncludedAt(s, c.Position) {
			continue
		}
		n++
	}
	return n
}
