package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/batchpaste/internal/records"
)

// LoadXLSX reads items from a workbook. The header row is the first
// non-empty row of the sheet.
func LoadXLSX(path string, opts Options) ([]records.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := opts.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	start := 0
	for start < len(rows) && (len(rows[start]) == 0 || isRowEmpty(rows[start])) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	m, err := mapHeaders(rows[start])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}
	return rowsToItems(m, rows[start+1:], start+2)
}
