package mark

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

// Repairer fixes up the tree once per committed input event: it enforces
// followStyle at mark boundaries and strips placeholder characters the
// typed text has made redundant.
type Repairer struct {
	schema *dom.Schema
	marks  *Registry
}

// NewRepairer creates a repairer over the given schema and mark registry.
func NewRepairer(schema *dom.Schema, marks *Registry) *Repairer {
	return &Repairer{schema: schema, marks: marks}
}

// RepairTyped inspects a collapsed cursor sitting just after typed text and
// applies boundary repair. typed is the committed input run; the cursor must
// sit at its tail. The returned range is the corrected cursor.
func (rp *Repairer) RepairTyped(rng cursor.Range, typed string) cursor.Range {
	if typed == "" || !rng.Collapsed() {
		return rng
	}
	typed = norm.NFC.String(typed)

	pos := rng.Start
	text := pos.Node
	if text == nil || text.Type != html.TextNode {
		return rng
	}

	atEnd := pos.Offset == len(text.Data) &&
		strings.HasSuffix(text.Data, typed)
	atStart := pos.Offset == len(typed) &&
		strings.HasPrefix(text.Data, typed)

	repaired := false
	switch {
	case atEnd && pos.Offset > 0:
		rng, repaired = rp.repairBoundary(text, typed, true)
	case atStart:
		rng, repaired = rp.repairBoundary(text, typed, false)
	}

	return rp.stripLeadingPlaceholder(rng, repaired)
}

// repairBoundary handles both mirror cases; forward selects the
// typed-at-mark-end case, the other branch is its mirror image.
func (rp *Repairer) repairBoundary(text *html.Node, typed string, forward bool) (cursor.Range, bool) {
	keep := cursor.At(text, offsetAfterTyped(text, typed, forward))

	candidates := rp.boundaryMarks(text, forward)
	if len(candidates) == 0 {
		return keep, false
	}
	outer := candidates[len(candidates)-1]

	// Detach the typed run from the text node, leaving a placeholder when
	// the node would otherwise become empty and caret-unaddressable.
	if forward {
		text.Data = text.Data[:len(text.Data)-len(typed)]
	} else {
		text.Data = text.Data[len(typed):]
	}
	if text.Data == "" {
		text.Data = dom.ZeroWidth
	}

	// Typed text keeps the follow-style marks nested inside the outermost
	// boundary mark, but moves outside every boundary mark.
	isCandidate := make(map[*html.Node]bool, len(candidates))
	for _, c := range candidates {
		isCandidate[c] = true
	}
	var wrappers []*html.Node
	for a := text.Parent; a != outer; a = a.Parent {
		if !isCandidate[a] {
			wrappers = append(wrappers, a)
		}
	}
	typedNode := dom.Text(typed)
	inserted := WrapIn(typedNode, wrappers)

	if forward {
		dom.InsertAfter(outer, inserted)
	} else {
		outer.Parent.InsertBefore(inserted, outer)
	}

	// Adjacent equal marks produced by the move are re-merged; the typed
	// text node itself survives merging, so the cursor can address it.
	rp.marks.MergeAdjacent(outer.Parent)

	return cursor.At(typedNode, len(typed)), true
}

// boundaryMarks collects the enclosing marks whose style must not follow,
// skipping any with a structurally-equal sibling mark in typing direction
// (adjacent equal marks mean "continue as-is").
func (rp *Repairer) boundaryMarks(text *html.Node, forward bool) []*html.Node {
	var candidates []*html.Node
	for a := text.Parent; a != nil && rp.schema.IsMark(a); a = a.Parent {
		if rp.marks.FindPlugin(a).FollowStyle {
			continue
		}
		if rp.equalAdjacentMark(a, forward) {
			continue
		}
		candidates = append(candidates, a)
	}
	return candidates
}

// equalAdjacentMark searches sibling-ward for a structurally-equal mark,
// walking through empty containers on the way.
func (rp *Repairer) equalAdjacentMark(m *html.Node, forward bool) bool {
	n := step(m, forward)
	for n != nil {
		switch {
		case n.Type == html.TextNode:
			if !dom.IsPlaceholderText(n.Data) && strings.TrimSpace(n.Data) != "" {
				return false
			}
		case n.Type == html.ElementNode:
			if rp.marks.Compare(m, n) {
				return true
			}
			if rp.schema.IsCard(n) || rp.schema.IsVoid(n) || !rp.schema.IsEmpty(n) {
				return false
			}
			// Empty container: look inside before moving on.
			if inner := into(n, forward); inner != nil {
				n = inner
				continue
			}
		}
		n = step(n, forward)
	}
	return false
}

func step(n *html.Node, forward bool) *html.Node {
	if forward {
		return n.NextSibling
	}
	return n.PrevSibling
}

func into(n *html.Node, forward bool) *html.Node {
	if forward {
		return n.FirstChild
	}
	return n.LastChild
}

func offsetAfterTyped(text *html.Node, typed string, forward bool) int {
	if forward {
		return len(text.Data)
	}
	return len(typed)
}

// stripLeadingPlaceholder removes a single leading zero-width placeholder
// from the cursor's text node. Placeholders exist only to keep empty mark
// positions addressable; once real typed content shares the node they must
// not survive. Applied after a boundary repair, or when the cursor's text
// node directly follows a mark.
func (rp *Repairer) stripLeadingPlaceholder(rng cursor.Range, repaired bool) cursor.Range {
	text := rng.Start.Node
	if text == nil || text.Type != html.TextNode {
		return rng
	}
	if !dom.HasLeadingZeroWidth(text.Data) || dom.IsPlaceholderText(text.Data) {
		return rng
	}
	if !repaired && !rp.schema.IsMark(dom.PrevMeaningfulSibling(text)) {
		return rng
	}
	text.Data = text.Data[len(dom.ZeroWidth):]
	off := rng.Start.Offset - len(dom.ZeroWidth)
	if off < 0 {
		off = 0
	}
	return cursor.At(text, off)
}
