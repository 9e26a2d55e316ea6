package selection

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

// SafeRange normalizes a candidate range for destructive use: ranges whose
// common ancestor escapes the editable root collapse to the root's end,
// both ends are pushed out of non-editable card interiors, and a collapsed
// result sitting at the very edge of an inline wrapper is nudged just
// outside it. No destructive operation may begin or end strictly inside an
// inline wrapper or a non-editable card.
func (nz *Normalizer) SafeRange(rng cursor.Range) cursor.Range {
	ca := rng.CommonAncestor()
	if ca == nil || !dom.Contains(nz.root, ca) {
		return cursor.At(nz.root, dom.ChildCount(nz.root))
	}
	rng = rng.Ordered()
	rng.Start = nz.resolveCardBoundary(rng.Start, false)
	rng.End = nz.resolveCardBoundary(rng.End, false)

	if !rng.Collapsed() {
		return rng
	}
	p := rng.Start
	inline := dom.Closest(p.Node, func(n *html.Node) bool {
		return nz.schema.IsInline(n) && !nz.schema.IsMark(n) && !nz.schema.IsCard(n)
	})
	if inline == nil || inline.Parent == nil {
		return rng
	}
	switch {
	case atNodeStart(p, inline):
		return cursor.At(inline.Parent, dom.ChildIndex(inline))
	case atNodeEnd(p, inline):
		return cursor.At(inline.Parent, dom.ChildIndex(inline)+1)
	}
	return rng
}

// atNodeStart reports whether p addresses the very first position inside n.
func atNodeStart(p cursor.Position, n *html.Node) bool {
	if p.Offset != 0 {
		return false
	}
	for cur := p.Node; cur != nil && cur != n; cur = cur.Parent {
		if cur.PrevSibling != nil {
			return false
		}
	}
	return true
}

// atNodeEnd reports whether p addresses the very last position inside n.
func atNodeEnd(p cursor.Position, n *html.Node) bool {
	if p.Offset != dom.NodeLength(p.Node) {
		return false
	}
	for cur := p.Node; cur != nil && cur != n; cur = cur.Parent {
		if cur.NextSibling != nil {
			return false
		}
	}
	return true
}
