// Package render draws the table preview and the column list as text tables.
package render

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
)

// CopiedMarker flags rows already handed to the clipboard.
const CopiedMarker = "✓"

// ExcludedSuffix is appended to the header of columns left out of transfer.
const ExcludedSuffix = " (off)"

var rightAligned = map[string]bool{
	schema.ColItemNum:     true,
	schema.ColQuantity:    true,
	schema.ColPrice:       true,
	schema.ColRequiredQty: true,
}

// PreviewOptions tune the preview.
type PreviewOptions struct {
	// OnlyIncluded hides excluded columns.
	OnlyIncluded bool

	// Style defaults to table.StyleRounded.
	Style *table.Style
}

// Preview renders the table with a leading row number and copied marker.
// Rows before copied are marked as transferred.
func Preview(t *records.Table, reg *selection.Registry, copied int, opts PreviewOptions) string {
	s := t.Schema()
	cols := s.Columns()

	var visible []schema.Column
	for _, c := range cols {
		if opts.OnlyIncluded && !reg.IncludedAt(s, c.Position) {
			continue
		}
		visible = append(visible, c)
	}

	tw := table.NewWriter()
	style := table.StyleRounded
	if opts.Style != nil {
		style = *opts.Style
	}
	tw.SetStyle(style)
	tw.Style().Format.Header = text.FormatDefault

	header := table.Row{"#", ""}
	for _, c := range visible {
		label := c.Label
		if !reg.IncludedAt(s, c.Position) {
			label += ExcludedSuffix
		}
		header = append(header, label)
	}
	tw.AppendHeader(header)

	for i, row := range t.Rows(0, t.Len()) {
		mark := ""
		if i < copied {
			mark = CopiedMarker
		}
		r := table.Row{strconv.Itoa(i + 1), mark}
		for _, c := range visible {
			r = append(r, row.At(c.Position))
		}
		tw.AppendRow(r)
	}

	configs := []table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 2, Align: text.AlignCenter},
	}
	for i, c := range visible {
		align := text.AlignLeft
		if rightAligned[c.ID] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 3,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// Columns renders the column list of a schema with inclusion flags.
func Columns(s schema.Schema, reg *selection.Registry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Pos", "ID", "Label", "Included", "Structural"})

	for _, c := range s.Columns() {
		tw.AppendRow(table.Row{
			c.Position + 1,
			c.ID,
			c.Label,
			yesNo(reg.IncludedAt(s, c.Position)),
			yesNo(c.OmitWhenExcluded),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
