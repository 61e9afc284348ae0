package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	t.Cleanup(func() { sleep = orig })
	return &slept
}

func extractionConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   1 * time.Second,
		MaxDelay:    16 * time.Second,
		Timeout:     time.Second,
	}
}

func TestWithRetrySuccess(t *testing.T) {
	slept := recordSleeps(t)

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		return "success", nil
	}

	result, err := WithRetry(context.Background(), extractionConfig(), operation)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
	if len(*slept) != 0 {
		t.Errorf("Expected no sleeps, got %v", *slept)
	}
}

func TestWithRetrySuccessAfterRetries(t *testing.T) {
	slept := recordSleeps(t)

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		if callCount < 3 {
			return "", errors.New("temporary failure")
		}
		return "success", nil
	}

	result, err := WithRetry(context.Background(), extractionConfig(), operation)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %s", result)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
	if len(*slept) != 2 || (*slept)[0] != time.Second || (*slept)[1] != 2*time.Second {
		t.Errorf("Expected sleeps [1s 2s], got %v", *slept)
	}
}

func TestWithRetryFailureAfterMaxAttempts(t *testing.T) {
	slept := recordSleeps(t)

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		return "", errors.New("persistent failure")
	}

	_, err := WithRetry(context.Background(), extractionConfig(), operation)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if callCount != 5 {
		t.Errorf("Expected 5 calls, got %d", callCount)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("Expected %d sleeps, got %v", len(want), *slept)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, (*slept)[i], want[i])
		}
	}
}

func TestWithRetryPermanentError(t *testing.T) {
	recordSleeps(t)

	sentinel := errors.New("bad key")
	callCount := 0
	_, err := WithRetry(context.Background(), extractionConfig(), func(ctx context.Context) (int, error) {
		callCount++
		return 0, Stop(sentinel)
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected sentinel error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetryContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := Config{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    1 * time.Second,
		Timeout:     1 * time.Second,
	}

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		if callCount == 1 {
			cancel()
		}
		return "", errors.New("failure")
	}

	_, err := WithRetry(ctx, config, operation)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestBackoffDelay(t *testing.T) {
	config := extractionConfig()
	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 16 * time.Second}
	for attempt, w := range want {
		if got := BackoffDelay(attempt, config); got != w {
			t.Errorf("BackoffDelay(%d) = %v, want %v", attempt, got, w)
		}
	}
}

func TestBackoffDelayJitterStaysInBounds(t *testing.T) {
	config := extractionConfig()
	config.Jitter = true
	for i := 0; i < 100; i++ {
		d := BackoffDelay(2, config)
		if d < 2*time.Second || d > 6*time.Second {
			t.Fatalf("jittered delay %v outside [2s, 6s]", d)
		}
	}
}

func TestBackoffDelayLargeAttempt(t *testing.T) {
	config := extractionConfig()
	if got := BackoffDelay(1000, config); got != config.MaxDelay {
		t.Errorf("BackoffDelay(1000) = %v, want MaxDelay", got)
	}
}
