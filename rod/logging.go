package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domgrab"
)

var _ domgrab.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs each render with its size.
type LoggingFetcher struct {
	next   domgrab.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher. A nil logger discards
// log output.
func NewLoggingFetcher(next domgrab.Fetcher, logger *slog.Logger) *LoggingFetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher. Failed renders are logged at Warn,
// canceled ones at Debug.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page string, err error) {
	defer func(begin time.Time) {
		elapsed := time.Since(begin)
		switch {
		case err == nil:
			f.logger.Info("render", "url", url, "bytes", len(page), "duration", elapsed)
		case ctx.Err() != nil:
			f.logger.Debug("render canceled", "url", url, "duration", elapsed, "err", err)
		default:
			f.logger.Warn("render failed", "url", url, "duration", elapsed, "err", err)
		}
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
