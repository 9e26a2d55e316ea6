package cursor

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// ShrunkToText returns the range narrowed to the deepest text positions.
// Element positions descend into the addressed child until a text node, a
// void element, or a card boundary stops the walk. The receiver is not
// modified.
func (r Range) ShrunkToText(s *dom.Schema) Range {
	r.Start = deepenStart(s, r.Start)
	r.End = deepenEnd(s, r.End)
	return r
}

func stopDescent(s *dom.Schema, n *html.Node) bool {
	return n.Type != html.ElementNode || n.FirstChild == nil || s.IsVoid(n) || s.IsCard(n)
}

func deepenStart(s *dom.Schema, p Position) Position {
	for !stopDescent(s, p.Node) {
		c := dom.ChildAt(p.Node, p.Offset)
		if c == nil {
			// Offset sits past the last child; descend into its end.
			c = p.Node.LastChild
			if s.IsVoid(c) || s.IsCard(c) {
				return p
			}
			p = Position{Node: c, Offset: dom.NodeLength(c)}
			continue
		}
		if s.IsVoid(c) || s.IsCard(c) {
			return p
		}
		p = Position{Node: c, Offset: 0}
	}
	return p
}

func deepenEnd(s *dom.Schema, p Position) Position {
	for !stopDescent(s, p.Node) {
		if p.Offset == 0 {
			c := p.Node.FirstChild
			if s.IsVoid(c) || s.IsCard(c) {
				return p
			}
			p = Position{Node: c, Offset: 0}
			continue
		}
		c := dom.ChildAt(p.Node, p.Offset-1)
		if s.IsVoid(c) || s.IsCard(c) {
			return p
		}
		p = Position{Node: c, Offset: dom.NodeLength(c)}
	}
	return p
}

// ShrunkToElement returns the range widened to element granularity: text
// positions become boundaries in the parent element, splitting nothing. A
// mid-text position maps to the boundary before the text node at the start
// and after it at the end, so the covered content only grows.
func (r Range) ShrunkToElement() Range {
	if r.Start.Node != nil && r.Start.Node.Type == html.TextNode && r.Start.Node.Parent != nil {
		i := dom.ChildIndex(r.Start.Node)
		if r.Start.Offset >= dom.NodeLength(r.Start.Node) {
			i++
		}
		r.Start = Position{Node: r.Start.Node.Parent, Offset: i}
	}
	if r.End.Node != nil && r.End.Node.Type == html.TextNode && r.End.Node.Parent != nil {
		i := dom.ChildIndex(r.End.Node)
		if r.End.Offset > 0 {
			i++
		}
		r.End = Position{Node: r.End.Node.Parent, Offset: i}
	}
	return r
}
