package main

import (
	"context"
	"errors"

	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/fs"
)

// Ensure SourceFetcher implements domgrab.Fetcher at compile time.
var _ domgrab.Fetcher = (*SourceFetcher)(nil)

// SourceFetcher sends local sources to Local and web URLs to Remote.
// Remote may be nil when every source is local.
type SourceFetcher struct {
	Local  domgrab.Fetcher
	Remote domgrab.Fetcher
}

// Fetch implements domgrab.Fetcher.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) (string, error) {
	if fs.IsLocal(source) {
		return f.Local.Fetch(ctx, source)
	}
	if f.Remote == nil {
		return "", domgrab.Errorf(domgrab.EINVALID, "no web fetcher configured for %s", source)
	}
	return f.Remote.Fetch(ctx, source)
}

// Close closes both fetchers.
func (f *SourceFetcher) Close() error {
	var errs []error
	if f.Local != nil {
		errs = append(errs, f.Local.Close())
	}
	if f.Remote != nil {
		errs = append(errs, f.Remote.Close())
	}
	return errors.Join(errs...)
}

// sourceURL returns the URL used to identify source in outputs and batch
// bookkeeping. Local paths become file:// URLs.
func sourceURL(source string) string {
	if fs.IsLocal(source) {
		return fs.FileURL(source)
	}
	return source
}

func anyRemote(sources []string) bool {
	for _, s := range sources {
		if !fs.IsLocal(s) {
			return true
		}
	}
	return false
}
