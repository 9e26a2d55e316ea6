package richedit

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/mark"
)

// maxMergeDepth bounds the seam-merge descent after a deletion so a
// malformed tree cannot drive unbounded recursion.
const maxMergeDepth = 32

// DeleteContent removes the content covered by rng. A collapsed range is a
// no-op. With deepMerge set, the blocks meeting at the cut are merged
// recursively. The returned range is the resulting cursor.
func (e *Editor) DeleteContent(rng cursor.Range, deepMerge bool) (cursor.Range, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return cursor.Range{}, ErrDestroyed
	}
	return e.deleteContent(rng, deepMerge), nil
}

// DeleteSelection deletes the current selection.
func (e *Editor) DeleteSelection(deepMerge bool) (cursor.Range, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return cursor.Range{}, ErrDestroyed
	}
	if !e.hasSel {
		return cursor.Range{}, nil
	}
	return e.deleteContent(e.sel, deepMerge), nil
}

func (e *Editor) deleteContent(rng cursor.Range, deepMerge bool) cursor.Range {
	if rng.Collapsed() {
		return rng
	}
	safe := e.normalizer.SafeRange(rng.Ordered())
	if safe.Collapsed() {
		return safe
	}

	// The enclosing block must be inside the editable region; a range that
	// resolved elsewhere aborts with the tree untouched.
	block := e.schema.ClosestBlock(safe.Start.Node)
	if block != nil && !dom.Contains(e.root, block) {
		return safe
	}

	savedMarks := e.marks.FindMarks(safe.Start.Node)

	cut, seam := extractContents(safe)

	if repaired, ok := e.repairEmptyBlock(cut, savedMarks); ok {
		ctx := e.applySelection(repaired)
		e.changed()
		return ctx.Range
	}

	if seam.Node != nil {
		if deepMerge {
			merged := e.deepMergeAt(seam)
			// A text cut position survives the merge; fall back to the seam
			// when the cut addressed a removed element boundary.
			if cut.Start.Node == nil || !dom.Contains(e.root, cut.Start.Node) {
				cut = merged
			}
		} else {
			e.pruneEmptySeam(seam)
		}
	}

	ctx := e.applySelection(cut)
	e.changed()
	return ctx.Range
}

// extractContents removes everything strictly between the range's ends. It
// returns the cut cursor plus the element-level seam at the common
// ancestor, which deep merge operates on. Boundary text nodes are split so
// partial text selections cut with byte precision.
func extractContents(rng cursor.Range) (cursor.Range, cursor.Position) {
	start, end := rng.Start, rng.End
	ca := rng.CommonAncestor()
	if ca == nil {
		return rng, cursor.Position{}
	}

	// Same-node fast paths leave no cross-block seam.
	if start.Node == end.Node {
		n := start.Node
		if n.Type == html.TextNode {
			n.Data = n.Data[:start.Offset] + n.Data[end.Offset:]
			return cursor.At(n, start.Offset), cursor.Position{}
		}
		for i := end.Offset - 1; i >= start.Offset; i-- {
			if c := dom.ChildAt(n, i); c != nil {
				n.RemoveChild(c)
			}
		}
		return cursor.At(n, start.Offset), cursor.Position{Node: n, Offset: start.Offset}
	}

	sParent, sIdx, keepText, keepOff := startBoundary(start)
	eParent, eIdx := endBoundary(end)

	// Climb from the start side, removing trailing siblings at each level
	// below the common ancestor.
	node, idx := sParent, sIdx
	for node != ca {
		removeChildrenFrom(node, idx)
		idx = dom.ChildIndex(node) + 1
		node = node.Parent
	}
	cutIdx := idx

	// Climb from the end side, removing leading siblings.
	node, idx = eParent, eIdx
	for node != ca {
		removeChildrenBefore(node, idx)
		idx = dom.ChildIndex(node)
		node = node.Parent
	}
	endIdx := idx

	for i := endIdx - 1; i >= cutIdx; i-- {
		if c := dom.ChildAt(ca, i); c != nil {
			ca.RemoveChild(c)
		}
	}

	seam := cursor.Position{Node: ca, Offset: cutIdx}
	if keepText != nil {
		return cursor.At(keepText, keepOff), seam
	}
	return cursor.At(ca, cutIdx), seam
}

// startBoundary converts the range start into (parent, first-index-to-cut).
// A mid-text start splits the node and keeps the head outside the cut.
func startBoundary(p cursor.Position) (parent *html.Node, idx int, keepText *html.Node, keepOff int) {
	n := p.Node
	if n.Type != html.TextNode {
		return n, p.Offset, nil, 0
	}
	switch {
	case p.Offset == 0:
		return n.Parent, dom.ChildIndex(n), nil, 0
	case p.Offset >= len(n.Data):
		return n.Parent, dom.ChildIndex(n) + 1, n, len(n.Data)
	default:
		dom.SplitText(n, p.Offset)
		return n.Parent, dom.ChildIndex(n) + 1, n, p.Offset
	}
}

// endBoundary converts the range end into (parent, first-index-to-keep).
func endBoundary(p cursor.Position) (parent *html.Node, idx int) {
	n := p.Node
	if n.Type != html.TextNode {
		return n, p.Offset
	}
	switch {
	case p.Offset >= len(n.Data):
		return n.Parent, dom.ChildIndex(n) + 1
	case p.Offset == 0:
		return n.Parent, dom.ChildIndex(n)
	default:
		dom.SplitText(n, p.Offset)
		// The head half is inside the cut, the tail survives.
		return n.Parent, dom.ChildIndex(n) + 1
	}
}

func removeChildrenFrom(n *html.Node, idx int) {
	for dom.ChildCount(n) > idx {
		n.RemoveChild(n.LastChild)
	}
}

func removeChildrenBefore(n *html.Node, idx int) {
	for i := 0; i < idx && n.FirstChild != nil; i++ {
		n.RemoveChild(n.FirstChild)
	}
}

// repairEmptyBlock handles the emptied-block case: the block gets a
// placeholder run (line break, wrapped in the marks active before the cut)
// so the caret has a typed-text-ready position.
func (e *Editor) repairEmptyBlock(cut cursor.Range, savedMarks []*html.Node) (cursor.Range, bool) {
	block := e.schema.ClosestBlock(cut.Start.Node)
	if block == nil || block == e.root || !e.schema.IsEmpty(block) {
		return cursor.Range{}, false
	}
	for block.FirstChild != nil {
		block.RemoveChild(block.FirstChild)
	}
	if len(savedMarks) == 0 {
		block.AppendChild(dom.Element("br"))
		return cursor.At(block, 0), true
	}
	inner := dom.Text(dom.ZeroWidth)
	block.AppendChild(mark.WrapIn(inner, savedMarks))
	block.AppendChild(dom.Element("br"))
	return cursor.At(inner, len(dom.ZeroWidth)), true
}

// deepMergeAt merges the blocks meeting at the seam, repeating on the inner
// seam each merge exposes, bounded by maxMergeDepth.
func (e *Editor) deepMergeAt(seam cursor.Position) cursor.Range {
	node := seam.Node
	idx := seam.Offset
	if node == nil || node.Type != html.ElementNode {
		return cursor.Range{Start: seam, End: seam}
	}
	for depth := 0; depth < maxMergeDepth; depth++ {
		left := dom.ChildAt(node, idx-1)
		right := dom.ChildAt(node, idx)
		if !e.canMergeBlocks(left, right) {
			break
		}
		seam := dom.ChildCount(left)
		dom.MoveChildren(right, left)
		node.RemoveChild(right)
		node, idx = left, seam
	}
	e.marks.MergeAdjacent(node)
	e.lists.Merge(node)
	return cursor.At(node, idx)
}

// canMergeBlocks reports whether two adjacent nodes may merge after a
// deletion: same-tag non-card blocks, or same-identity lists.
func (e *Editor) canMergeBlocks(left, right *html.Node) bool {
	if left == nil || right == nil {
		return false
	}
	if e.schema.IsCard(left) || e.schema.IsCard(right) ||
		e.schema.IsVoid(left) || e.schema.IsVoid(right) {
		return false
	}
	if e.lists.IsList(left) || e.lists.IsList(right) {
		return e.lists.IsSame(left, right)
	}
	return e.schema.IsBlock(left) && e.schema.IsBlock(right) && left.Data == right.Data
}

// pruneEmptySeam removes empty elements abutting the cut point.
func (e *Editor) pruneEmptySeam(seam cursor.Position) {
	node := seam.Node
	if node == nil || node.Type != html.ElementNode {
		return
	}
	for _, n := range []*html.Node{dom.ChildAt(node, seam.Offset), dom.ChildAt(node, seam.Offset-1)} {
		if n != nil && n.Type == html.ElementNode &&
			!e.schema.IsVoid(n) && !e.schema.IsCard(n) && n.FirstChild == nil {
			node.RemoveChild(n)
		}
	}
}
