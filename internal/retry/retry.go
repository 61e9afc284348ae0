package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Config bounds a retried operation. MaxAttempts counts the first call.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Timeout     time.Duration
	Jitter      bool
}

// Permanent wraps an error that must not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// Stop marks err as permanent.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &Permanent{Err: err}
}

// sleep is swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func WithRetry[T any](ctx context.Context, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(config.MaxAttempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		opCtx, cancel := ctx, context.CancelFunc(func() {})
		if config.Timeout > 0 {
			opCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		}
		result, err := operation(opCtx)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err

		var perm *Permanent
		if errors.As(err, &perm) {
			return zero, perm.Err
		}

		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Msg("Operation failed")

		if attempt < attempts-1 {
			delay := BackoffDelay(attempt, config)
			log.Debug().
				Dur("delay", delay).
				Int("next_attempt", attempt+2).
				Msg("Retrying after delay")

			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}
	}
	return zero, fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}

// BackoffDelay returns the wait after the given 0-based failed attempt:
// BaseDelay doubled per attempt, capped at MaxDelay. With Jitter the delay
// is scaled by a random factor in [0.5, 1.5) and capped again.
func BackoffDelay(attempt int, config Config) time.Duration {
	// Cap attempt at 30 to prevent overflow (2^30 is safe for int)
	safeAttempt := min(attempt, 30)
	delay := time.Duration(1<<safeAttempt) * config.BaseDelay

	if config.MaxDelay > 0 && delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	if config.Jitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
		if config.MaxDelay > 0 && delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return delay
}
