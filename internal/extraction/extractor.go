// =============================================================================
// Batch Paste - Extraction Collaborator
// =============================================================================
//
// Extraction turns free text and scanned documents into an ordered list of
// line items (description, quantity, unit). The tool does not implement the
// inference itself; it calls an external text/vision model and retries
// transient failures before giving up.
//
// COMPONENTS:
//   - Extractor  : the contract the rest of the tool depends on
//   - Gemini     : Gemini API implementation (google.golang.org/genai)
//   - Retrying   : bounded exponential backoff around any Extractor
//
// The model's JSON answer is decoded by records.ParseItems, which the
// importer shares.
//
// =============================================================================

package extraction

import (
	"context"
	"errors"
	"strings"

	"github.com/ginjaninja78/batchpaste/internal/records"
)

// Request is the input handed to an Extractor.
type Request struct {
	// Text is free-form material request text. May be empty when
	// attachments are present.
	Text string

	// Attachments are images or PDFs to read items from.
	Attachments []Attachment
}

// Empty reports whether the request carries nothing to extract from.
func (r Request) Empty() bool {
	return strings.TrimSpace(r.Text) == "" && len(r.Attachments) == 0
}

// Extractor returns the line items found in a request, in document order.
type Extractor interface {
	Extract(ctx context.Context, req Request) ([]records.Item, error)
}

// Sentinel errors surfaced to the user after retries are exhausted.
var (
	ErrEmptyRequest     = errors.New("paste some text or attach a file or photo with the material list")
	ErrMissingAPIKey    = errors.New("extraction API key not configured")
	ErrInvalidAPIKey    = errors.New("the extraction API key is not valid")
	ErrPermissionDenied = errors.New("permission denied: the API key may not have access to this model")
	ErrEmptyResponse    = errors.New("empty response from extraction service")
)
