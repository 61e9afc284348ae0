// =============================================================================
// Batch Paste - Table Exporter
// =============================================================================
//
// The exporter saves the current table outside the clipboard:
//   - XLSX: every column of the schema, labels as the header row. Columns
//     excluded from transfer keep their data but get a grey header so the
//     sheet still shows what would be pasted.
//   - TSV: the whole table serialized exactly as the batches would be,
//     under the current inclusion map, without a header.
//
// =============================================================================

package exporter

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/selection"
	"github.com/ginjaninja78/batchpaste/internal/transfer"
)

// =============================================================================
// XLSX
// =============================================================================

// WriteXLSX writes the table to a workbook at path with one sheet named
// after the schema.
func WriteXLSX(path string, t *records.Table, reg *selection.Registry) error {
	f := excelize.NewFile()
	defer f.Close()

	s := t.Schema()
	sheet := s.String()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	included, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	excluded, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#808080"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#EDEDED"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// Header row.
	labels := s.Labels()
	if err := f.SetSheetRow(sheet, "A1", &labels); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, col := range s.Columns() {
		cell, err := excelize.CoordinatesToCellName(col.Position+1, 1)
		if err != nil {
			return err
		}
		style := included
		if reg != nil && !reg.IncludedAt(s, col.Position) {
			style = excluded
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	// Data rows. Everything is written as text so item numbers like "0010"
	// and comma decimals survive.
	for i, row := range t.Rows(0, t.Len()) {
		for pos, value := range row.Values() {
			cell, err := excelize.CoordinatesToCellName(pos+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(s.Width())
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 14); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Info().Str("path", path).Int("rows", t.Len()).Str("schema", s.Code()).Msg("Exported XLSX")
	return nil
}

// =============================================================================
// TSV
// =============================================================================

// WriteTSV writes every row of the table serialized under reg.
func WriteTSV(path string, t *records.Table, reg *selection.Registry) error {
	text := transfer.SerializeRows(t.Schema(), t.Rows(0, t.Len()), reg)
	if text != "" {
		text += "\n"
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write TSV: %w", err)
	}

	log.Info().Str("path", path).Int("rows", t.Len()).Str("schema", t.Schema().Code()).Msg("Exported TSV")
	return nil
}
