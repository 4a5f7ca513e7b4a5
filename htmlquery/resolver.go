// Package htmlquery resolves XPath expressions against parsed HTML and
// generates structural paths for elements. It wraps antchfx/htmlquery.
package htmlquery

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

// Ensure Resolver implements domgrab.PathResolver at compile time.
var _ domgrab.PathResolver = (*Resolver)(nil)

// Resolver evaluates XPath expressions with antchfx/xpath.
// Resolver is stateless and safe for concurrent use.
//
// The root passed to a resolve call becomes the navigator root, so absolute
// expressions ("/..." and "//...") only search the root's subtree, even when
// root is an array container rather than the document. Relative steps are
// not bounded this way: "../ul/li" from a container climbs above it.
type Resolver struct {
	converter domgrab.Converter
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConverter enables the markdown attribute.
func WithConverter(c domgrab.Converter) Option {
	return func(r *Resolver) {
		r.converter = c
	}
}

// NewResolver creates a new Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Parse parses an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, domgrab.Errorf(domgrab.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// ResolveOne returns the first node matching expr in document order.
func (r *Resolver) ResolveOne(expr string, root *html.Node) domgrab.Resolution {
	return evaluate(expr, root, true)
}

// ResolveAll returns every node matching expr in document order.
func (r *Resolver) ResolveAll(expr string, root *html.Node) domgrab.Resolution {
	return evaluate(expr, root, false)
}

// evaluate compiles and runs expr. Compile errors and evaluation panics are
// both reported as Invalid.
func evaluate(expr string, root *html.Node, first bool) (res domgrab.Resolution) {
	if root == nil {
		return domgrab.Resolution{Status: domgrab.Invalid, Reason: "nil root node"}
	}
	if strings.TrimSpace(expr) == "" {
		return domgrab.Resolution{Status: domgrab.Invalid, Reason: "empty expression"}
	}

	exp, err := xpath.Compile(expr)
	if err != nil {
		return domgrab.Resolution{Status: domgrab.Invalid, Reason: err.Error()}
	}

	defer func() {
		if p := recover(); p != nil {
			res = domgrab.Resolution{Status: domgrab.Invalid, Reason: fmt.Sprint(p)}
		}
	}()

	var nodes []*html.Node
	if first {
		if n := htmlquery.QuerySelector(root, exp); n != nil {
			nodes = []*html.Node{n}
		}
	} else {
		nodes = htmlquery.QuerySelectorAll(root, exp)
	}

	if len(nodes) == 0 {
		return domgrab.Resolution{Status: domgrab.NotFound}
	}
	return domgrab.Resolution{Status: domgrab.Found, Nodes: nodes}
}

// ReadValue reads attr from n:
//   - text: rendered text, trimmed; nil when empty
//   - html: inner markup, trimmed
//   - outerHtml: markup including n, trimmed
//   - markdown: inner markup as Markdown (only with WithConverter)
//   - anything else: the attribute with that name, or nil
func (r *Resolver) ReadValue(n *html.Node, attr domgrab.Attribute) *string {
	if n == nil {
		return nil
	}

	switch attr = attr.Normalize(); attr {
	case domgrab.AttrText:
		text := strings.TrimSpace(Text(n))
		if text == "" {
			return nil
		}
		return &text
	case domgrab.AttrHTML:
		s := strings.TrimSpace(htmlquery.OutputHTML(n, false))
		return &s
	case domgrab.AttrOuterHTML:
		s := strings.TrimSpace(htmlquery.OutputHTML(n, true))
		return &s
	case domgrab.AttrMarkdown:
		if r.converter != nil {
			md, err := r.converter.Convert(htmlquery.OutputHTML(n, false))
			if err != nil {
				return nil
			}
			md = strings.TrimSpace(md)
			return &md
		}
	}

	if v, ok := Attr(n, string(attr)); ok {
		return &v
	}
	return nil
}

// Attr returns the value of the named attribute. HTML attribute names are
// matched case-insensitively.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the text content of n, skipping script, style, template and
// noscript descendants.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				if hiddenText(c.Data) {
					continue
				}
				walk(c.FirstChild)
			case html.DocumentNode:
				walk(c.FirstChild)
			}
		}
	}
	walk(n.FirstChild)
	return b.String()
}

func hiddenText(tag string) bool {
	switch tag {
	case "script", "style", "template", "noscript":
		return true
	}
	return false
}
