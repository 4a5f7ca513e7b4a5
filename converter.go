package domgrab

// Converter renders an HTML fragment as Markdown. It backs the markdown
// attribute of field rules.
type Converter interface {
	// Convert returns the Markdown for the inner HTML of an element.
	Convert(html string) (string, error)
}
