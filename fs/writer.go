package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/domgrab"
)

// OutputWriter saves formatted output into a directory. Each file is written
// to a temporary name and renamed into place, so readers never see a
// partial file.
type OutputWriter struct {
	dir string
}

// NewOutputWriter creates a new OutputWriter for dir.
func NewOutputWriter(dir string) *OutputWriter {
	return &OutputWriter{dir: dir}
}

// Write saves content under the name domgrab.Filename derives from out and
// returns the path written. An existing file is never overwritten; a
// numeric suffix is added instead.
func (w *OutputWriter) Write(out *domgrab.Output, format domgrab.Format, content string) (string, error) {
	if out == nil {
		return "", domgrab.Errorf(domgrab.EINVALID, "output required")
	}
	if format == "" {
		format = out.Format
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, ".domgrab-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing output: %w", err)
	}

	path := w.freePath(domgrab.Filename(out.SourceURL, format, out.Timestamp))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("moving output into place: %w", err)
	}
	return path, nil
}

func (w *OutputWriter) freePath(name string) string {
	path := filepath.Join(w.dir, name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(w.dir, base+"-"+strconv.Itoa(i)+ext)
	}
}
