// Package fs reads pages from and writes extraction output to the local
// filesystem.
package fs

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/domgrab"
)

// Ensure FileFetcher implements domgrab.Fetcher at compile time.
var _ domgrab.Fetcher = (*FileFetcher)(nil)

// FileFetcher reads saved HTML pages from disk. Sources are plain paths or
// file:// URLs.
type FileFetcher struct{}

// NewFileFetcher creates a new FileFetcher.
func NewFileFetcher() *FileFetcher {
	return &FileFetcher{}
}

// Fetch returns the contents of the file named by source.
func (f *FileFetcher) Fetch(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := LocalPath(source)
	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", domgrab.Errorf(domgrab.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return "", err
	}
	return string(b), nil
}

// Close is a no-op.
func (f *FileFetcher) Close() error {
	return nil
}

// IsLocal reports whether source names a local file rather than a web page.
func IsLocal(source string) bool {
	if strings.HasPrefix(source, "file://") {
		return true
	}
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}

// LocalPath returns the filesystem path for a path or file:// URL.
func LocalPath(source string) (string, error) {
	if !strings.HasPrefix(source, "file://") {
		return source, nil
	}
	u, err := url.Parse(source)
	if err != nil {
		return "", domgrab.Errorf(domgrab.EINVALID, "invalid file URL %q: %v", source, err)
	}
	return filepath.FromSlash(u.Path), nil
}

// FileURL returns the file:// URL for a local path.
func FileURL(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
