package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domgrab"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// fetchWithRetry calls fetcher once plus once per delay until it succeeds.
// ENOTFOUND and EINVALID errors are returned immediately.
func fetchWithRetry(ctx context.Context, fetcher domgrab.Fetcher, url string, delays []time.Duration, logger *slog.Logger) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		html, err := fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt == len(delays) || !retryable(err) {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		logger.Debug("retry fetch", "url", url, "attempt", attempt+2, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return "", lastErr
}

func retryable(err error) bool {
	switch domgrab.ErrorCode(err) {
	case domgrab.ENOTFOUND, domgrab.EINVALID:
		return false
	}
	return true
}
