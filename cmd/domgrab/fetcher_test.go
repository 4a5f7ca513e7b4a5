package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/domgrab"
	main "github.com/fwojciec/domgrab/cmd/domgrab"
	"github.com/fwojciec/domgrab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFetcher(t *testing.T) {
	t.Parallel()

	named := func(name string) *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return name + ":" + url, nil
			},
			CloseFn: func() error { return errors.New(name + " closed") },
		}
	}

	t.Run("routes by source kind", func(t *testing.T) {
		t.Parallel()

		f := &main.SourceFetcher{Local: named("local"), Remote: named("remote")}

		for source, want := range map[string]string{
			"page.html":               "local:page.html",
			"file:///tmp/page.html":   "local:file:///tmp/page.html",
			"https://example.com/":    "remote:https://example.com/",
			"http://example.com/page": "remote:http://example.com/page",
		} {
			got, err := f.Fetch(context.Background(), source)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("rejects web URLs without a remote fetcher", func(t *testing.T) {
		t.Parallel()

		f := &main.SourceFetcher{Local: named("local")}

		_, err := f.Fetch(context.Background(), "https://example.com/")

		assert.Equal(t, domgrab.EINVALID, domgrab.ErrorCode(err))
	})

	t.Run("closes both fetchers", func(t *testing.T) {
		t.Parallel()

		f := &main.SourceFetcher{Local: named("local"), Remote: named("remote")}

		err := f.Close()

		assert.ErrorContains(t, err, "local closed")
		assert.ErrorContains(t, err, "remote closed")
	})
}
