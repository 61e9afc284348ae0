package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Item is one extracted line item: a description, an optional quantity and
// an optional unit. The JSON names match the extraction service contract.
type Item struct {
	Description string   `json:"descricao"`
	Quantity    *float64 `json:"quantidade,omitempty"`
	Unit        string   `json:"unidade,omitempty"`
}

// UnmarshalJSON accepts the quantity either as a JSON number or as a numeric
// string, and treats null or "" as absent. A comma decimal separator is
// accepted in string form.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description string          `json:"descricao"`
		Quantity    json.RawMessage `json:"quantidade"`
		Unit        *string         `json:"unidade"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	it.Description = raw.Description
	it.Unit = ""
	if raw.Unit != nil {
		it.Unit = *raw.Unit
	}

	q, err := parseQuantity(raw.Quantity)
	if err != nil {
		return fmt.Errorf("item %q: %w", raw.Description, err)
	}
	it.Quantity = q
	return nil
}

func parseQuantity(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("invalid quantity: %w", err)
		}
		return ParseQuantity(s)
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}
	return &f, nil
}

// ParseQuantity parses a user or file supplied quantity. Blank input is
// absent, not zero.
func ParseQuantity(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", s)
	}
	return &f, nil
}

// FormatQuantity renders a quantity with the shortest exact decimal form.
// An absent quantity renders as the empty string.
func FormatQuantity(q *float64) string {
	if q == nil {
		return ""
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}

// Float is a convenience for building items in code.
func Float(f float64) *float64 {
	return &f
}
