// Package bloom tracks URLs already visited by a batch run.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate keeps accidental skips rare for batches of a few
// thousand URLs.
const DefaultFalsePositiveRate = 1e-6

// Filter is a Bloom filter over normalized URLs.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given false
// positive rate. n below one is treated as one.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(max(n, 1), fpRate)}
}

// Seen reports whether rawURL was possibly seen before and records it.
// URLs that differ only by fragment are the same page.
func (f *Filter) Seen(rawURL string) bool {
	return f.f.TestOrAddString(Key(rawURL))
}

// Test reports whether rawURL was possibly seen, without recording it.
func (f *Filter) Test(rawURL string) bool {
	return f.f.TestString(Key(rawURL))
}

// EstimatedCount returns the approximate number of distinct URLs recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Key normalizes rawURL for deduplication: the fragment is dropped and the
// host is lowercased. Unparseable input is used as is.
func Key(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
