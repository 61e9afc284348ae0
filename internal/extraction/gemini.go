package extraction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/retry"
)

// SystemPrompt instructs the model to answer with the item envelope and
// to use the ERP's unit abbreviations.
const SystemPrompt = `You are an ERP (SAP) back-office assistant that returns ONLY a JSON object.
Analyse the text and/or images and extract the list of items.
Your answer MUST be a JSON object with a single key "materiais", an array of objects.
Each object must have the keys "descricao" (string, UPPER CASE), "quantidade" (number) and "unidade" (string, SAP abbreviation).
Example output: {"materiais": [{"descricao": "ITEM EXEMPLO", "quantidade": 1, "unidade": "UN"}]}

UNIT OF MEASURE RULES:
1. If the original document (text or image) states the unit (e.g. "PC", "peças", "UN", "unidades", "PAR", "pares", "M", "metros", "LT", "litros"), YOU MUST USE THE STATED UNIT.
2. Format the output strictly with the official SAP abbreviations: 'PC' (piece), 'UN' (unit), 'PAR' (pair), 'M' (metre), 'CX' (box), 'KG' (kilo), 'LT' (litre).
3. Only deduce a unit when the item has no unit indication at all in the original text/image.`

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini extracts items through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// GeminiOptions override the transport, mostly for tests.
type GeminiOptions struct {
	// BaseURL replaces the public API endpoint.
	BaseURL string

	// HTTPClient replaces the default HTTP client.
	HTTPClient *http.Client
}

// NewGemini creates a client authenticated with an API key.
func NewGemini(ctx context.Context, apiKey, model string, opts GeminiOptions) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Extract implements Extractor with a single request. Invalid-key and
// permission failures are marked permanent so a Retrying wrapper stops at
// once.
func (g *Gemini) Extract(ctx context.Context, req Request) ([]records.Item, error) {
	if req.Empty() {
		return nil, retry.Stop(ErrEmptyRequest)
	}

	contents, config := BuildRequest(req)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, classify(err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	log.Debug().Int("chars", len(text)).Str("model", g.model).Msg("Extraction response received")

	items, err := records.ParseItems(text)
	if errors.Is(err, records.ErrEmptyDocument) {
		return nil, ErrEmptyResponse
	}
	return items, err
}

// BuildRequest assembles the user content (free text first, then each
// attachment inline) and the generation config with the system prompt.
func BuildRequest(req Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	var parts []*genai.Part
	if strings.TrimSpace(req.Text) != "" {
		parts = append(parts, genai.NewPartFromText(req.Text))
	}
	for _, a := range req.Attachments {
		parts = append(parts, genai.NewPartFromBytes(a.Data, a.MimeType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	return contents, config
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil {
				b.WriteString(p.Text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}

// classify maps API failures onto the user-facing sentinels.
func classify(err error) error {
	code, msg, ok := apiErrorDetails(err)
	if ok {
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "api key not valid"):
			return retry.Stop(fmt.Errorf("%w: %s", ErrInvalidAPIKey, msg))
		case code == http.StatusForbidden || strings.Contains(lower, "permission"):
			return retry.Stop(fmt.Errorf("%w: %s", ErrPermissionDenied, msg))
		}
	}
	return fmt.Errorf("extraction request failed: %w", err)
}

func apiErrorDetails(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}
