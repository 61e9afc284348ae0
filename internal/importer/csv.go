package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/batchpaste/internal/records"
)

// LoadCSV reads items from a delimited text file with one header row.
func LoadCSV(path string, opts Options) ([]records.Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// ReadCSV parses delimited text. When no delimiter is configured it is
// guessed from the header line.
func ReadCSV(r io.Reader, opts Options) ([]records.Item, error) {
	reader := bufio.NewReader(r)

	// Strip a UTF-8 BOM, common in spreadsheet exports.
	if bom, err := reader.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = reader.Discard(3)
	}

	comma := delimiterRune(opts.Delimiter)
	if comma == 0 {
		head, _ := reader.Peek(4096)
		comma = sniffDelimiter(head)
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	// Skip leading blank lines before the header.
	for len(allRows) > 0 && isRowEmpty(allRows[0]) {
		allRows = allRows[1:]
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	m, err := mapHeaders(allRows[0])
	if err != nil {
		return nil, err
	}
	return rowsToItems(m, allRows[1:], 2)
}

// delimiterRune resolves a configured delimiter name. Zero means detect.
func delimiterRune(d string) rune {
	switch d {
	case "":
		return 0
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	default:
		return []rune(d)[0]
	}
}

// sniffDelimiter picks the most frequent candidate on the first line.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{'\t', ';', ',', '|'} {
		if n := bytes.Count(head, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
