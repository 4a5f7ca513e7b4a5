// Package batch runs extraction over a list of URLs. It coordinates
// deduplication, per-host rate limiting, fetching with retries, template
// lookup, extraction and optional submission to a backend.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/bloom"
	"golang.org/x/net/html"
)

// Runner extracts one URL at a time. Fetcher and Extractor are required.
// RuleSets is consulted for URLs without an explicit rule set. RateLimiter
// and Submitter are optional.
type Runner struct {
	Fetcher     domgrab.Fetcher
	Extractor   domgrab.Extractor
	RuleSets    domgrab.RuleSetService
	RateLimiter domgrab.DomainLimiter
	Submitter   domgrab.Submitter
	BackendURL  string
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Status classifies the outcome for one URL.
type Status int

const (
	StatusExtracted Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusExtracted:
		return "extracted"
	case StatusFailed:
		return "failed"
	}
	return "skipped"
}

// Item is the outcome for one input URL, in input order.
type Item struct {
	URL     string
	Status  Status
	RuleSet *domgrab.RuleSet
	Output  *domgrab.Output
	Err     error
}

// Result holds the outcome of a batch.
type Result struct {
	Items     []Item
	Extracted int
	Failed    int
	Skipped   int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Run extracts every URL in order. When rs is nil each URL's rule set comes
// from RuleSets.FindRuleSetForURL. A failing URL is recorded and the batch
// continues; Run itself fails only when ctx is done.
func (r *Runner) Run(ctx context.Context, urls []string, rs *domgrab.RuleSet, progress ProgressFunc) (*Result, error) {
	if rs == nil && r.RuleSets == nil {
		return nil, domgrab.Errorf(domgrab.EINVALID, "rule set or template service required")
	}
	if rs != nil {
		if err := rs.Validate(); err != nil {
			return nil, err
		}
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	seen := bloom.NewFilter(uint(len(urls)), bloom.DefaultFalsePositiveRate)
	result := &Result{Items: make([]Item, 0, len(urls))}
	total := len(urls)

	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		event := ProgressEvent{Completed: i + 1, Total: total, URL: rawURL}

		if seen.Seen(rawURL) {
			result.Items = append(result.Items, Item{URL: rawURL, Status: StatusSkipped})
			result.Skipped++
			event.Type = ProgressSkipped
			progress(event)
			continue
		}

		item := r.process(ctx, rawURL, rs)
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Items = append(result.Items, item)

		if item.Status == StatusFailed {
			result.Failed++
			event.Type = ProgressFailed
			event.Error = item.Err
			r.logger().Warn("batch item failed", "url", rawURL, "error", item.Err)
		} else {
			result.Extracted++
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

func (r *Runner) process(ctx context.Context, rawURL string, rs *domgrab.RuleSet) Item {
	item := Item{URL: rawURL, Status: StatusFailed, RuleSet: rs}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "file" && u.Hostname() == "") {
		item.Err = domgrab.Errorf(domgrab.EINVALID, "invalid URL %q", rawURL)
		return item
	}

	if item.RuleSet == nil {
		item.RuleSet, err = r.RuleSets.FindRuleSetForURL(ctx, rawURL)
		if err != nil {
			item.Err = fmt.Errorf("find template: %w", err)
			return item
		}
	}

	if r.RateLimiter != nil && u.Hostname() != "" {
		if err := r.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			item.Err = err
			return item
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	page, err := fetchWithRetry(ctx, r.Fetcher, rawURL, delays, r.logger())
	if err != nil {
		item.Err = fmt.Errorf("fetch: %w", err)
		return item
	}

	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		item.Err = domgrab.Errorf(domgrab.EINVALID, "parse %s: %v", rawURL, err)
		return item
	}

	out, err := r.Extractor.Extract(item.RuleSet, &domgrab.Document{Root: root, URL: rawURL})
	if err != nil {
		item.Err = fmt.Errorf("extract: %w", err)
		return item
	}
	hashed := *out
	hashed.ContentHash = ContentHash(page)
	item.Output = &hashed

	if r.Submitter != nil && r.BackendURL != "" {
		if err := r.Submitter.Submit(ctx, r.BackendURL, item.Output, page); err != nil {
			item.Err = fmt.Errorf("submit: %w", err)
			return item
		}
	}

	item.Status = StatusExtracted
	return item
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// ContentHash returns the hex xxhash of page.
func ContentHash(page string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(page))
}

// TruncateURL shortens a URL for display, keeping the end.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
