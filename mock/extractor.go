package mock

import "github.com/fwojciec/domgrab"

var (
	_ domgrab.Extractor = (*Extractor)(nil)
	_ domgrab.Formatter = (*Formatter)(nil)
)

// Extractor is a mock implementation of domgrab.Extractor.
type Extractor struct {
	ExtractFn func(rs *domgrab.RuleSet, doc *domgrab.Document) (*domgrab.Output, error)
}

func (e *Extractor) Extract(rs *domgrab.RuleSet, doc *domgrab.Document) (*domgrab.Output, error) {
	return e.ExtractFn(rs, doc)
}

// Formatter is a mock implementation of domgrab.Formatter.
type Formatter struct {
	FormatFn func(out *domgrab.Output, format domgrab.Format, rs *domgrab.RuleSet) (string, error)
}

func (f *Formatter) Format(out *domgrab.Output, format domgrab.Format, rs *domgrab.RuleSet) (string, error) {
	return f.FormatFn(out, format, rs)
}
