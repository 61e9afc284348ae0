// =============================================================================
// Batch Paste - Item Importer
// =============================================================================
//
// The importer reads line items from files instead of the extraction
// service. It is used when a material list already exists as a spreadsheet
// or when a previous extraction was saved as JSON.
//
// SUPPORTED FORMATS (by extension):
//   .json         {"materiais": [...]} envelope or a bare array of items
//   .csv / .tsv   delimited text with a header row
//   .xlsx         first sheet (or a named sheet) with a header row
//
// HEADER MATCHING:
//   Tabular files are matched by header name, case-insensitively and with
//   punctuation ignored. Recognised headers per field:
//     description : descricao, description, texto breve, denominacao
//     quantity    : quantidade, quant, qtd, qtdnecess, qty, quantity
//     unit        : unidade, um, unit, uom
//   A description column is required; the other two are optional.
//
// =============================================================================

package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/batchpaste/internal/records"
)

// Options tune tabular parsing.
type Options struct {
	// Delimiter overrides CSV delimiter detection. Accepts a single
	// character or "tab", "pipe", "semicolon".
	Delimiter string

	// Sheet selects an XLSX sheet by name. Empty means the first sheet.
	Sheet string
}

// Load reads items from path, choosing the parser by file extension.
func Load(path string, opts Options) ([]records.Item, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		items, err := records.ParseItems(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return items, nil
	case ".csv", ".txt":
		return LoadCSV(path, opts)
	case ".tsv":
		if opts.Delimiter == "" {
			opts.Delimiter = "tab"
		}
		return LoadCSV(path, opts)
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, opts)
	default:
		return nil, fmt.Errorf("unsupported import format %q", filepath.Ext(path))
	}
}

// =============================================================================
// HEADER MAPPING
// =============================================================================

type field int

const (
	fieldNone field = iota
	fieldDescription
	fieldQuantity
	fieldUnit
)

var headerAliases = map[string]field{
	"descricao":   fieldDescription,
	"description": fieldDescription,
	"textobreve":  fieldDescription,
	"denominacao": fieldDescription,
	"quantidade":  fieldQuantity,
	"quant":       fieldQuantity,
	"qtd":         fieldQuantity,
	"qtdnecess":   fieldQuantity,
	"qty":         fieldQuantity,
	"quantity":    fieldQuantity,
	"unidade":     fieldUnit,
	"um":          fieldUnit,
	"unit":        fieldUnit,
	"uom":         fieldUnit,
}

// columnMap records where each field lives in a tabular row. -1 is absent.
type columnMap struct {
	description int
	quantity    int
	unit        int
}

func mapHeaders(headers []string) (columnMap, error) {
	m := columnMap{description: -1, quantity: -1, unit: -1}
	for i, h := range headers {
		switch headerAliases[normalizeHeader(h)] {
		case fieldDescription:
			if m.description < 0 {
				m.description = i
			}
		case fieldQuantity:
			if m.quantity < 0 {
				m.quantity = i
			}
		case fieldUnit:
			if m.unit < 0 {
				m.unit = i
			}
		}
	}
	if m.description < 0 {
		return m, fmt.Errorf("no description column found in headers %q", headers)
	}
	return m, nil
}

// normalizeHeader lower-cases, folds accents and drops
// everything that is not a letter or digit.
func normalizeHeader(h string) string {
	folded, _, err := transform.String(foldAccents(), strings.ToLower(strings.TrimSpace(h)))
	if err != nil {
		folded = strings.ToLower(h)
	}
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldAccents strips combining marks: "Descrição" becomes "Descricao".
// A transformer is stateful, so each call gets its own chain.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// rowsToItems converts data rows into items. Rows without a description
// are skipped; a malformed quantity is an error naming the row.
func rowsToItems(m columnMap, rows [][]string, firstRow int) ([]records.Item, error) {
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	items := make([]records.Item, 0, len(rows))
	for n, row := range rows {
		desc := cell(row, m.description)
		if desc == "" {
			continue
		}
		q, err := records.ParseQuantity(cell(row, m.quantity))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", firstRow+n, err)
		}
		items = append(items, records.Item{
			Description: desc,
			Quantity:    q,
			Unit:        cell(row, m.unit),
		})
	}
	return items, nil
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
