package htmlquery

import (
	"strconv"
	"strings"

	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

// Ensure PathGenerator implements domgrab.PathGenerator at compile time.
var _ domgrab.PathGenerator = (*PathGenerator)(nil)

// PathGenerator builds structural XPath expressions for elements.
//
// An element with an id gets //*[@id="..."]. Otherwise the path walks up
// to the root element, emitting tag[n] where n is the 1-based position
// among same-tag siblings (omitted when the tag is unique among siblings),
// and stops early at the first ancestor with an id.
type PathGenerator struct{}

// NewPathGenerator creates a new PathGenerator.
func NewPathGenerator() *PathGenerator {
	return &PathGenerator{}
}

// Generate returns the path for n. Non-element nodes use their nearest
// element ancestor. Returns "" when there is none.
func (g *PathGenerator) Generate(n *html.Node) string {
	n = element(n)
	if n == nil {
		return ""
	}

	if id, ok := Attr(n, "id"); ok && id != "" {
		return idStep(id)
	}

	var steps []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if isRootElement(cur) {
			steps = append(steps, cur.Data)
			break
		}
		if cur != n {
			if id, ok := Attr(cur, "id"); ok && id != "" {
				steps = append(steps, idStep(id))
				reverse(steps)
				return strings.Join(steps, "/")
			}
		}
		steps = append(steps, step(cur))
	}

	reverse(steps)
	return "/" + strings.Join(steps, "/")
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

// step returns tag or tag[n] for n's position among same-tag siblings.
func step(n *html.Node) string {
	if n.Parent == nil {
		return n.Data
	}
	count, index := 0, 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != n.Data {
			continue
		}
		count++
		if c == n {
			index = count
		}
	}
	if count <= 1 {
		return n.Data
	}
	return n.Data + "[" + strconv.Itoa(index) + "]"
}

func idStep(id string) string {
	return "//*[@id=" + Literal(id) + "]"
}

// Literal quotes s as an XPath string literal. Values holding both quote
// characters are built with concat().
func Literal(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	parts := strings.Split(s, `"`)
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
