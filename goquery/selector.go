// Package goquery generates and resolves CSS selectors using
// PuerkitoBio/goquery and andybalholm/cascadia.
package goquery

import (
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

// MaxSelectorDepth is the maximum number of segments in a generated selector,
// counting an id anchor.
const MaxSelectorDepth = 5

// Ensure SelectorGenerator implements domgrab.SelectorGenerator at compile time.
var _ domgrab.SelectorGenerator = (*SelectorGenerator)(nil)

// SelectorGenerator builds class/id-based CSS selectors.
//
// An id is used only when it matches exactly one element in the document.
// Each segment is the tag followed by every class token. Segments that would
// also match a sibling get :nth-child(k), where k counts all element siblings.
type SelectorGenerator struct{}

// NewSelectorGenerator creates a new SelectorGenerator.
func NewSelectorGenerator() *SelectorGenerator {
	return &SelectorGenerator{}
}

// Generate returns a selector for n, or "" for nodes outside any element.
func (g *SelectorGenerator) Generate(n *html.Node) string {
	n = element(n)
	if n == nil {
		return ""
	}
	if isRootElement(n) {
		return n.Data
	}

	doc := goquery.NewDocumentFromNode(top(n))

	if id := uniqueID(doc, n); id != "" {
		return id
	}

	var segments []string
	for cur := n; cur != nil && cur.Type == html.ElementNode && len(segments) < MaxSelectorDepth; cur = cur.Parent {
		if isRootElement(cur) {
			break
		}
		if cur != n {
			if id := uniqueID(doc, cur); id != "" {
				segments = append(segments, id)
				break
			}
		}
		segments = append(segments, segment(cur))
	}

	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, " > ")
}

// uniqueID returns #id when n's id matches exactly one element in doc.
func uniqueID(doc *goquery.Document, n *html.Node) string {
	id, ok := attr(n, "id")
	if !ok || id == "" {
		return ""
	}
	sel := "#" + Escape(id)
	if doc.Find(sel).Length() != 1 {
		return ""
	}
	return sel
}

func segment(n *html.Node) string {
	classes := classList(n)
	seg := n.Data
	for _, c := range classes {
		seg += "." + Escape(c)
	}
	if n.Parent == nil {
		return seg
	}

	position, index, collisions := 0, 0, 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		position++
		if c == n {
			index = position
			continue
		}
		if c.Data == n.Data && slices.Equal(classList(c), classes) {
			collisions++
		}
	}
	if collisions == 0 {
		return seg
	}
	return seg + ":nth-child(" + strconv.Itoa(index) + ")"
}

func classList(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func element(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

func isRootElement(n *html.Node) bool {
	return n.Parent != nil && n.Parent.Type == html.DocumentNode
}

func top(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
