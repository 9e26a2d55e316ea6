package selection

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/card"
	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/mark"
)

// Normalizer repositions candidate ranges onto valid positions within one
// editable root.
type Normalizer struct {
	root   *html.Node
	schema *dom.Schema
	marks  *mark.Registry
	cards  *card.Registry
}

// New creates a normalizer for the given editable root.
func New(root *html.Node, schema *dom.Schema, marks *mark.Registry, cards *card.Registry) *Normalizer {
	return &Normalizer{root: root, schema: schema, marks: marks, cards: cards}
}

// Normalize adjusts a candidate range onto the nearest valid position and
// returns the context recomputed for it. Card exclusion runs before
// the caret-convenience fixes so that no fix can land the cursor inside a
// non-editable card interior.
func (nz *Normalizer) Normalize(rng cursor.Range) Context {
	rng = rng.Ordered()
	rng.Start = nz.resolveCardBoundary(rng.Start, true)
	rng.End = nz.resolveCardBoundary(rng.End, true)
	rng = nz.fixTrailingLineBreak(rng)
	rng = rng.ShrunkToText(nz.schema)
	rng = nz.fixZeroWidth(rng)
	rng = nz.fixInlineInterior(rng)
	return nz.ContextFor(rng)
}

// fixTrailingLineBreak moves a collapsed cursor trapped after a sole
// placeholder line break (optionally preceded by one card) to just before
// the break, where typed text can land.
func (nz *Normalizer) fixTrailingLineBreak(rng cursor.Range) cursor.Range {
	if !rng.Collapsed() {
		return rng
	}
	n := rng.Start.Node
	if n == nil || n.Type != html.ElementNode {
		return rng
	}
	count := dom.ChildCount(n)
	if rng.Start.Offset != count || count == 0 || !nz.schema.IsLineBreak(n.LastChild) {
		return rng
	}
	sole := count == 1 || (count == 2 && nz.schema.IsCard(n.FirstChild))
	if !sole {
		return rng
	}
	return cursor.At(n, count-1)
}

// fixZeroWidth keeps the caret from resolving inside an inline's leading or
// trailing placeholder: text starting with the placeholder directly after a
// non-void inline advances past it, and symmetrically for the end.
func (nz *Normalizer) fixZeroWidth(rng cursor.Range) cursor.Range {
	s := rng.Start
	if s.Node != nil && s.Node.Type == html.TextNode && s.Offset == 0 &&
		dom.HasLeadingZeroWidth(s.Node.Data) {
		prev := s.Node.PrevSibling
		if nz.schema.IsInline(prev) && !nz.schema.IsVoid(prev) {
			rng.Start.Offset = len(dom.ZeroWidth)
			if rng.Collapsed() {
				rng.End = rng.Start
				return rng
			}
		}
	}
	e := rng.End
	if e.Node != nil && e.Node.Type == html.TextNode && e.Offset == len(e.Node.Data) &&
		dom.HasTrailingZeroWidth(e.Node.Data) {
		next := e.Node.NextSibling
		if nz.schema.IsInline(next) && !nz.schema.IsVoid(next) {
			rng.End.Offset = len(e.Node.Data) - len(dom.ZeroWidth)
			if rng.Start.Compare(rng.End) > 0 {
				rng.Start = rng.End
			}
		}
	}
	return rng
}

// fixInlineInterior nudges a collapsed caret off the literal edge of an
// inline wrapper's single text child, where platform caret rendering is
// ambiguous. The nudge is one grapheme inward, which steps over an interior
// placeholder when one is present.
func (nz *Normalizer) fixInlineInterior(rng cursor.Range) cursor.Range {
	if !rng.Collapsed() {
		return rng
	}
	p := rng.Start
	if p.Node == nil || p.Node.Type != html.TextNode {
		return rng
	}
	// Marks are exempt: their edges are legitimate caret positions. The fix
	// targets inline wrappers like links, whose content carries interior
	// placeholders.
	parent := p.Node.Parent
	if parent == nil || !nz.schema.IsInline(parent) || nz.schema.IsMark(parent) ||
		nz.schema.IsVoid(parent) || nz.schema.IsCard(parent) {
		return rng
	}
	if parent.FirstChild != p.Node || parent.LastChild != p.Node {
		return rng
	}
	data := p.Node.Data
	if len(data) == 0 {
		return rng
	}
	switch p.Offset {
	case 0:
		if step := dom.NextGraphemeLen(data, 0); step < len(data) {
			return cursor.At(p.Node, step)
		}
	case len(data):
		if step := dom.PrevGraphemeLen(data, len(data)); step < len(data) {
			return cursor.At(p.Node, len(data)-step)
		}
	}
	return rng
}

// resolveCardBoundary repositions a position inside a non-editable card to
// the card's nearest focusable neighbor, choosing before or after by
// comparing document order against the card's center region. With
// allowZones set, positions inside an inline card's cursor zones are left
// alone; they are legal caret targets handled by input repair.
func (nz *Normalizer) resolveCardBoundary(p cursor.Position, allowZones bool) cursor.Position {
	if p.Node == nil {
		return p
	}
	root := nz.schema.ClosestCard(p.Node)
	if root == nil || nz.schema.IsEditable(root) || root.Parent == nil {
		return p
	}
	if p.Node == root && (p.Offset == 0 || p.Offset == dom.ChildCount(root)) {
		// Boundary positions on the root itself are outside the interior.
		i := dom.ChildIndex(root)
		if p.Offset == 0 {
			return cursor.Position{Node: root.Parent, Offset: i}
		}
		return cursor.Position{Node: root.Parent, Offset: i + 1}
	}
	if allowZones {
		if zone := dom.Closest(p.Node, func(n *html.Node) bool {
			return dom.Attr(n, dom.AttrCardZone) != ""
		}); zone != nil {
			return p
		}
	}
	centerPos := cursor.Position{Node: root, Offset: 0}
	if center := card.Center(root); center != nil {
		centerPos = cursor.Position{Node: center, Offset: 0}
	}
	i := dom.ChildIndex(root)
	if p.Compare(centerPos) > 0 {
		return cursor.Position{Node: root.Parent, Offset: i + 1}
	}
	return cursor.Position{Node: root.Parent, Offset: i}
}

// ContextFor recomputes the active marks, enclosing blocks and enclosing
// inlines for an already-adjusted range.
func (nz *Normalizer) ContextFor(rng cursor.Range) Context {
	anchor := rng.Start.Node
	if !rng.Collapsed() {
		anchor = rng.CommonAncestor()
	}
	ctx := Context{Range: rng}
	ctx.Marks = nz.marks.FindMarks(anchor)
	for n := anchor; n != nil && n != nz.root; n = n.Parent {
		if nz.schema.IsBlock(n) {
			ctx.Blocks = append(ctx.Blocks, n)
		}
		if nz.schema.IsInline(n) && !nz.schema.IsMark(n) {
			ctx.Inlines = append(ctx.Inlines, n)
		}
	}
	if !rng.Collapsed() {
		ctx.Blocks = appendIntersectingBlocks(nz.schema, ctx.Blocks, rng)
	}
	return ctx
}

// appendIntersectingBlocks adds the top-level blocks under the common
// ancestor that the range covers.
func appendIntersectingBlocks(s *dom.Schema, blocks []*html.Node, rng cursor.Range) []*html.Node {
	ca := rng.CommonAncestor()
	if ca == nil || ca.Type != html.ElementNode {
		return blocks
	}
	seen := make(map[*html.Node]bool, len(blocks))
	for _, b := range blocks {
		seen[b] = true
	}
	for c := ca.FirstChild; c != nil; c = c.NextSibling {
		if !s.IsBlock(c) || seen[c] {
			continue
		}
		nodeStart := cursor.Position{Node: ca, Offset: dom.ChildIndex(c)}
		nodeEnd := cursor.Position{Node: ca, Offset: dom.ChildIndex(c) + 1}
		if nodeEnd.Compare(rng.Start) <= 0 || nodeStart.Compare(rng.End) >= 0 {
			continue
		}
		blocks = append(blocks, c)
	}
	return blocks
}
