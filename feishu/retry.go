package feishu

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/creatorscan"
)

// DefaultRetryDelays returns the backoff delays for request retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// withRetry calls fn until it succeeds, the delays run out, or fn returns
// an API error. API errors carry a definite answer from the server and
// are never retried.
func withRetry(ctx context.Context, op string, delays []time.Duration, logger *slog.Logger, fn func() error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var apiErr *creatorscan.Error
		if errors.As(err, &apiErr) || attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger.Warn("retry request", "op", op, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return lastErr
}
