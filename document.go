package domgrab

import "golang.org/x/net/html"

// Document is a parsed, already-rendered page.
type Document struct {
	// Root is the document node returned by the HTML parser.
	Root *html.Node

	// URL is the address the document was loaded from.
	URL string
}

// ResolveStatus classifies the outcome of evaluating an expression.
type ResolveStatus int

// Resolution outcomes.
const (
	NotFound ResolveStatus = iota
	Found
	Invalid
)

func (s ResolveStatus) String() string {
	switch s {
	case Found:
		return "found"
	case Invalid:
		return "invalid"
	}
	return "not found"
}

// Resolution is the tagged result of evaluating an expression.
type Resolution struct {
	Status ResolveStatus
	Nodes  []*html.Node

	// Reason describes why an expression is Invalid.
	Reason string
}

// Node returns the first matched node, or nil.
func (r Resolution) Node() *html.Node {
	if len(r.Nodes) == 0 {
		return nil
	}
	return r.Nodes[0]
}

// PathResolver evaluates structural path expressions against a document tree.
// Implementations never panic on bad input; failures are reported through
// the Resolution status.
type PathResolver interface {
	// ResolveOne returns the first node matching expr in document order.
	ResolveOne(expr string, root *html.Node) Resolution

	// ResolveAll returns every node matching expr in document order.
	ResolveAll(expr string, root *html.Node) Resolution

	// ReadValue reads attr from n. Returns nil when the value is absent.
	ReadValue(n *html.Node, attr Attribute) *string
}
