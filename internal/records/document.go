package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyDocument is returned for blank item documents.
var ErrEmptyDocument = errors.New("empty item document")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n\\s*```")

// Document is the {"materiais": [...]} envelope used by the extraction
// service, the extract command and the JSON importer.
type Document struct {
	Items []Item `json:"materiais"`
}

// MarshalDocument encodes items as an indented envelope with a trailing
// newline. Nil items encode as an empty list.
func MarshalDocument(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(Document{Items: items}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseItems decodes an item document. A ```json fenced block is unwrapped
// first. Both the envelope and a bare array are accepted.
func ParseItems(text string) ([]Item, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	if strings.HasPrefix(text, "[") {
		var items []Item
		if err := json.Unmarshal([]byte(text), &items); err != nil {
			return nil, fmt.Errorf("decode item list: %w", err)
		}
		return items, nil
	}

	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("decode item document: %w", err)
	}
	if doc.Items == nil {
		return nil, fmt.Errorf("decode item document: missing \"materiais\" list")
	}
	return doc.Items, nil
}
