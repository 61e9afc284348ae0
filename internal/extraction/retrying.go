package extraction

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/retry"
)

// DefaultRetry is 5 attempts waiting 1s, 2s, 4s, 8s between them, with
// 16s as the ceiling.
var DefaultRetry = retry.Config{
	MaxAttempts: 5,
	BaseDelay:   1 * time.Second,
	MaxDelay:    16 * time.Second,
	Timeout:     2 * time.Minute,
}

// Retrying wraps an Extractor with bounded exponential backoff.
type Retrying struct {
	Inner  Extractor
	Config retry.Config
}

// Extract implements Extractor.
func (r Retrying) Extract(ctx context.Context, req Request) ([]records.Item, error) {
	items, err := retry.WithRetry(ctx, r.Config, func(ctx context.Context) ([]records.Item, error) {
		return r.Inner.Extract(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int("items", len(items)).Msg("Extraction complete")
	return items, nil
}
