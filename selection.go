package domgrab

import "golang.org/x/net/html"

// Selection is caller-owned interactive highlight state. Transitions return
// a new value and never touch the document.
type Selection struct {
	// Hovered is the element under the pointer, if any.
	Hovered *html.Node

	// Selected is the element the user picked, if any.
	Selected *html.Node
}

// Hover moves the hover highlight to n. Hovering the selected element is a no-op.
func (s Selection) Hover(n *html.Node) Selection {
	if n == nil || n == s.Selected {
		return s
	}
	s.Hovered = n
	return s
}

// Leave drops the hover highlight unless related is the hovered element or
// one of its descendants. The selected element is kept.
func (s Selection) Leave(related *html.Node) Selection {
	if s.Hovered == nil {
		return s
	}
	if related != nil && Contains(s.Hovered, related) {
		return s
	}
	s.Hovered = nil
	return s
}

// Select marks n as the selected element and drops any hover highlight.
func (s Selection) Select(n *html.Node) Selection {
	return Selection{Selected: n}
}

// Clear drops every highlight.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Contains reports whether n is ancestor or n itself.
func Contains(ancestor, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}
