package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

// Ensure SelectorResolver implements domgrab.PathResolver at compile time.
var _ domgrab.PathResolver = (*SelectorResolver)(nil)

// SelectorResolver evaluates CSS selectors against a document tree, so rule
// paths and locate queries can be written as selectors.
type SelectorResolver struct{}

// NewSelectorResolver creates a new SelectorResolver.
func NewSelectorResolver() *SelectorResolver {
	return &SelectorResolver{}
}

// ResolveOne returns the first descendant of root matching selector.
func (r *SelectorResolver) ResolveOne(selector string, root *html.Node) domgrab.Resolution {
	res := r.ResolveAll(selector, root)
	if len(res.Nodes) > 1 {
		res.Nodes = res.Nodes[:1]
	}
	return res
}

// ResolveAll returns every descendant of root matching selector in
// document order. Selectors that fail to compile are Invalid.
func (r *SelectorResolver) ResolveAll(selector string, root *html.Node) domgrab.Resolution {
	if root == nil {
		return domgrab.Resolution{Status: domgrab.Invalid, Reason: "nil root node"}
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return domgrab.Resolution{Status: domgrab.Invalid, Reason: err.Error()}
	}

	nodes := goquery.NewDocumentFromNode(root).FindMatcher(sel).Nodes
	if len(nodes) == 0 {
		return domgrab.Resolution{Status: domgrab.NotFound}
	}
	return domgrab.Resolution{Status: domgrab.Found, Nodes: nodes}
}

// ReadValue reads attr from n using goquery. Text keeps script and style
// contents, unlike the XPath resolver. Markdown is not supported and is read
// as an attribute named "markdown".
func (r *SelectorResolver) ReadValue(n *html.Node, attr domgrab.Attribute) *string {
	if n == nil {
		return nil
	}
	sel := goquery.NewDocumentFromNode(n).Selection

	var v string
	switch attr.Normalize() {
	case domgrab.AttrText:
		v = strings.TrimSpace(sel.Text())
	case domgrab.AttrHTML:
		h, err := sel.Html()
		if err != nil {
			return nil
		}
		v = strings.TrimSpace(h)
	case domgrab.AttrOuterHTML:
		h, err := goquery.OuterHtml(sel)
		if err != nil {
			return nil
		}
		v = strings.TrimSpace(h)
	default:
		a, ok := sel.Attr(string(attr))
		if !ok {
			return nil
		}
		return &a
	}
	if v == "" {
		return nil
	}
	return &v
}
