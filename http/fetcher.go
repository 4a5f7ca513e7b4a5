// Package http fetches static pages and submits extraction results over
// plain HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/domgrab"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBodySize caps the number of bytes read from a page.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "domgrab/1.0"

// Ensure Fetcher implements domgrab.Fetcher at compile time.
var _ domgrab.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML with plain GET requests. It does not run scripts,
// so rules see the server-rendered markup only.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher or Submitter.
type Option func(*options)

type options struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// WithTimeout sets the request timeout. Ignored when WithClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithClient uses c for every request.
func WithClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithMaxBodySize caps the bytes read from a response.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		o.maxBodySize = n
	}
}

func newOptions(opts []Option) options {
	o := options{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := newOptions(opts)
	return &Fetcher{
		client:      o.client,
		userAgent:   o.userAgent,
		maxBodySize: o.maxBodySize,
	}
}

// Fetch returns the body of the page at url. A 404 response returns
// ENOTFOUND; any other non-200 status is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domgrab.Errorf(domgrab.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", domgrab.Errorf(domgrab.ENOTFOUND, "page not found: %s", url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// Close is a no-op.
func (f *Fetcher) Close() error {
	return nil
}
