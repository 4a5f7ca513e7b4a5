package main

import (
	"io"
	"time"

	"github.com/fwojciec/domgrab/batch"
	"github.com/schollz/progressbar/v3"
)

// progress draws a bar on stderr for batches of more than one source.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer, total int) *progress {
	if total < 2 {
		return &progress{}
	}
	return &progress{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

// Report advances the bar once per processed source.
func (p *progress) Report(event batch.ProgressEvent) {
	if p.bar == nil {
		return
	}
	switch event.Type {
	case batch.ProgressCompleted, batch.ProgressFailed, batch.ProgressSkipped:
		_ = p.bar.Add(1)
		p.bar.Describe(batch.TruncateURL(event.URL, 40))
	}
}

// Finish clears the bar.
func (p *progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
