package mock

import (
	"context"

	"github.com/fwojciec/domgrab"
)

var (
	_ domgrab.Fetcher       = (*Fetcher)(nil)
	_ domgrab.DomainLimiter = (*DomainLimiter)(nil)
	_ domgrab.Submitter     = (*Submitter)(nil)
)

// Fetcher is a mock implementation of domgrab.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// DomainLimiter is a mock implementation of domgrab.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// Submitter is a mock implementation of domgrab.Submitter.
type Submitter struct {
	SubmitFn func(ctx context.Context, backendURL string, out *domgrab.Output, pageHTML string) error
}

func (s *Submitter) Submit(ctx context.Context, backendURL string, out *domgrab.Output, pageHTML string) error {
	return s.SubmitFn(ctx, backendURL, out, pageHTML)
}
