package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/domgrab"
)

// Ensure LoggingExtractor implements domgrab.Extractor.
var _ domgrab.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   domgrab.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next domgrab.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs rule counts.
func (e *LoggingExtractor) Extract(rs *domgrab.RuleSet, doc *domgrab.Document) (out *domgrab.Output, err error) {
	defer func(begin time.Time) {
		var url string
		if doc != nil {
			url = doc.URL
		}
		var fields, objects, arrays, rows int
		if rs != nil {
			fields, objects, arrays = len(rs.Fields), len(rs.Objects), len(rs.Arrays)
		}
		if out != nil {
			for _, r := range out.ArrayResults {
				rows += len(r)
			}
		}
		e.logger.Info("extract",
			"url", url,
			"fields", fields,
			"objects", objects,
			"arrays", arrays,
			"rows", rows,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(rs, doc)
}
