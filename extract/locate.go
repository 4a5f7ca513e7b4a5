package extract

import (
	"strings"

	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

// previewLength is the number of runes kept in Locator.Text.
const previewLength = 100

// Locator builds both locator forms for an element and checks that the
// structural path resolves back to it.
type Locator struct {
	Resolver  domgrab.PathResolver
	Paths     domgrab.PathGenerator
	Selectors domgrab.SelectorGenerator
}

// Locate returns the locator for n within doc. Non-element nodes are
// located through their nearest element ancestor.
func (l *Locator) Locate(doc *domgrab.Document, n *html.Node) (*domgrab.Locator, error) {
	if doc == nil || doc.Root == nil {
		return nil, domgrab.Errorf(domgrab.EINVALID, "document required")
	}
	n = element(n)
	if n == nil {
		return nil, domgrab.Errorf(domgrab.EINVALID, "element required")
	}

	loc := &domgrab.Locator{
		Path:     l.Paths.Generate(n),
		Selector: l.Selectors.Generate(n),
	}
	if text := l.Resolver.ReadValue(n, domgrab.AttrText); text != nil {
		loc.Text = preview(*text)
	}

	res := l.Resolver.ResolveOne(loc.Path, doc.Root)
	loc.Verified = res.Status == domgrab.Found && res.Node() == n

	return loc, nil
}

// Highlight resolves expr and marks the first match as selected. On failure
// the selection is cleared and ENOTFOUND or EINVALID is returned.
func Highlight(sel domgrab.Selection, resolver domgrab.PathResolver, expr string, root *html.Node) (domgrab.Selection, error) {
	res := resolver.ResolveOne(expr, root)
	switch res.Status {
	case domgrab.Found:
		return sel.Select(res.Node()), nil
	case domgrab.Invalid:
		return sel.Clear(), domgrab.Errorf(domgrab.EINVALID, "invalid expression %q: %s", expr, res.Reason)
	}
	return sel.Clear(), domgrab.Errorf(domgrab.ENOTFOUND, "no element matches %q", expr)
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= previewLength {
		return s
	}
	return string(runes[:previewLength])
}

func element(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}
