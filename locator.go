package domgrab

import "golang.org/x/net/html"

// Locator identifies an element in two independent forms.
type Locator struct {
	// Path is a structural path expression (XPath).
	Path string `json:"path"`

	// Selector is a class/id-based CSS selector.
	Selector string `json:"selector"`

	// Text is a short preview of the element's text.
	Text string `json:"text"`

	// Verified is true when Path resolves back to the same element.
	Verified bool `json:"verified"`
}

// PathGenerator derives a structural path expression for a node.
type PathGenerator interface {
	Generate(n *html.Node) string
}

// SelectorGenerator derives a CSS selector for a node.
type SelectorGenerator interface {
	Generate(n *html.Node) string
}
