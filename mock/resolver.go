package mock

import (
	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

var (
	_ domgrab.PathResolver      = (*PathResolver)(nil)
	_ domgrab.PathGenerator     = (*PathGenerator)(nil)
	_ domgrab.SelectorGenerator = (*SelectorGenerator)(nil)
)

// PathResolver is a mock implementation of domgrab.PathResolver.
type PathResolver struct {
	ResolveOneFn func(expr string, root *html.Node) domgrab.Resolution
	ResolveAllFn func(expr string, root *html.Node) domgrab.Resolution
	ReadValueFn  func(n *html.Node, attr domgrab.Attribute) *string
}

func (r *PathResolver) ResolveOne(expr string, root *html.Node) domgrab.Resolution {
	return r.ResolveOneFn(expr, root)
}

func (r *PathResolver) ResolveAll(expr string, root *html.Node) domgrab.Resolution {
	return r.ResolveAllFn(expr, root)
}

func (r *PathResolver) ReadValue(n *html.Node, attr domgrab.Attribute) *string {
	return r.ReadValueFn(n, attr)
}

// PathGenerator is a mock implementation of domgrab.PathGenerator.
type PathGenerator struct {
	GenerateFn func(n *html.Node) string
}

func (g *PathGenerator) Generate(n *html.Node) string {
	return g.GenerateFn(n)
}

// SelectorGenerator is a mock implementation of domgrab.SelectorGenerator.
type SelectorGenerator struct {
	GenerateFn func(n *html.Node) string
}

func (g *SelectorGenerator) Generate(n *html.Node) string {
	return g.GenerateFn(n)
}
