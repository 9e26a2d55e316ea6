// Package list provides the structural helpers the mutators need around
// ul/ol lists: identity comparison for merge decisions, empty-item checks,
// and merging of adjacent compatible lists.
package list

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Helper answers list-specific structural questions for the mutators.
type Helper struct {
	schema *dom.Schema
}

// NewHelper creates a helper over the given schema.
func NewHelper(schema *dom.Schema) *Helper {
	return &Helper{schema: schema}
}

// IsList reports whether n is a list wrapper element.
func (h *Helper) IsList(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "ol")
}

// IsItem reports whether n is a list item.
func (h *Helper) IsItem(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == "li"
}

// IsSame reports whether two lists share identity for merge purposes: same
// tag and same customize marker.
func (h *Helper) IsSame(a, b *html.Node) bool {
	if !h.IsList(a) || !h.IsList(b) {
		return false
	}
	return a.Data == b.Data &&
		dom.Attr(a, dom.AttrCustomize) == dom.Attr(b, dom.AttrCustomize)
}

// IsEmptyItem reports whether a list item holds no semantic content.
func (h *Helper) IsEmptyItem(n *html.Node) bool {
	return h.IsItem(n) && h.schema.IsEmpty(n)
}

// LastItem returns the deepest last item of a list, descending into nested
// lists, or nil for an empty list.
func (h *Helper) LastItem(n *html.Node) *html.Node {
	if !h.IsList(n) {
		return nil
	}
	var last *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if h.IsItem(c) {
			last = c
		}
	}
	if last == nil {
		return nil
	}
	for c := last.LastChild; c != nil; c = c.PrevSibling {
		if h.IsList(c) {
			if nested := h.LastItem(c); nested != nil {
				return nested
			}
		}
	}
	return last
}

// Merge joins adjacent same-identity lists among scope's children and
// returns the number of merges performed.
func (h *Helper) Merge(scope *html.Node) int {
	if scope == nil {
		return 0
	}
	merged := 0
	for c := scope.FirstChild; c != nil; {
		next := dom.NextMeaningfulSibling(c)
		if h.IsSame(c, next) {
			dom.MoveChildren(next, c)
			dom.Detach(next)
			merged++
			continue
		}
		c = c.NextSibling
	}
	return merged
}

// UnwrapCustomize strips customized-list wrappers from the given fragment
// edge nodes, lifting their items in place. Non-customized nodes are left
// alone.
func (h *Helper) UnwrapCustomize(nodes []*html.Node) {
	for _, n := range nodes {
		if h.IsList(n) && h.schema.IsCustomize(n) && n.Parent != nil {
			dom.RemoveAttr(n, dom.AttrCustomize)
		}
	}
}
