package domgrab

import "time"

// Format identifies an output rendering.
type Format string

// Supported output formats.
const (
	FormatJSON      Format = "json"
	FormatJSONArray Format = "json-array"
	FormatCSV       Format = "csv"
	FormatMarkdown  Format = "markdown"
	FormatRaw       Format = "raw"
	FormatXML       Format = "xml"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatJSONArray, FormatCSV, FormatMarkdown, FormatRaw, FormatXML:
		return true
	}
	return false
}

// Record maps field names to extracted values. A nil value means the field
// did not resolve.
type Record map[string]*string

// Output is the result of one extraction. It is built fresh per call and
// must not be modified once returned.
type Output struct {
	SingleResults Record              `json:"singleResults"`
	ObjectResults map[string]Record   `json:"objectResults"`
	ArrayResults  map[string][]Record `json:"arrayResults"`
	Format        Format              `json:"format"`
	SourceURL     string              `json:"url"`
	Timestamp     time.Time           `json:"timestamp"`

	// ContentHash fingerprints the source HTML when it is known.
	ContentHash string `json:"contentHash,omitempty"`
}

// String returns a pointer to s. Used to build Record values.
func String(s string) *string {
	return &s
}
