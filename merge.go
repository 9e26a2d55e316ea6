package richedit

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

// UnwrapNode replaces n with its children and renormalizes the selection.
// Unwrapping the editable root or a detached node is a no-op.
func (e *Editor) UnwrapNode(n *html.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	if n == nil || n == e.root || n.Parent == nil || !dom.Contains(e.root, n) {
		return nil
	}
	parent := n.Parent
	idx := dom.ChildIndex(n)
	dom.Unwrap(n)
	e.applySelection(cursor.At(parent, idx))
	e.changed()
	return nil
}

// MergeAfterDeletePrevNode is the backspace-at-block-start primitive: it
// decides what happens between block and whatever precedes it.
func (e *Editor) MergeAfterDeletePrevNode(block *html.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	if block == nil || !dom.Contains(e.root, block) || block == e.root {
		return nil
	}
	e.mergeAfterDeletePrev(block)
	return nil
}

func (e *Editor) mergeAfterDeletePrev(block *html.Node) {
	prev := dom.PrevMeaningfulSibling(block)

	switch {
	case prev == nil:
		// Nothing precedes the block. Inside a wrapper the block dissolves
		// into its parent; at the root there is nothing to merge with.
		if block.Parent != e.root {
			parent := block.Parent
			idx := dom.ChildIndex(block)
			dom.Unwrap(block)
			e.applySelection(cursor.At(parent, idx))
			e.changed()
		}
		return

	case e.schema.IsCard(prev):
		if e.schema.IsEmpty(block) {
			dom.Detach(block)
		}
		if inst := e.cards.Find(prev, false); inst != nil {
			e.applySelection(e.cards.Focus(inst))
		} else {
			e.applySelection(cursor.SelectNode(prev))
		}
		e.changed()
		return

	case e.schema.IsVoid(prev):
		dom.Detach(prev)
		e.applySelection(cursor.At(block, 0))
		e.changed()
		return

	case prev.Type == html.TextNode:
		// A bare text node merges like a block once wrapped in a paragraph.
		p := dom.Element("p")
		prev.Parent.InsertBefore(p, prev)
		dom.Detach(prev)
		p.AppendChild(prev)
		e.mergeBlockInto(p, block)
		return

	case e.lists.IsList(prev):
		if item := e.lists.LastItem(prev); item != nil {
			e.mergeBlockInto(item, block)
			return
		}
		dom.Detach(prev)
		e.applySelection(cursor.At(block, 0))
		e.changed()
		return

	case e.schema.IsRootBlock(prev) && e.schema.IsEmpty(prev):
		dom.Detach(prev)
		e.applySelection(cursor.At(block, 0))
		e.changed()
		return

	default:
		e.mergeBlockInto(prev, block)
	}
}

// mergeBlockInto appends block's children to target, removes block, and
// restores the cursor at the seam.
func (e *Editor) mergeBlockInto(target, block *html.Node) {
	stripPlaceholderBreak(e, target, true)
	stripPlaceholderBreak(e, block, false)

	seam := dom.ChildCount(target)
	dom.MoveChildren(block, target)
	dom.Detach(block)

	e.marks.MergeAdjacent(target)
	if target.Parent != nil {
		e.lists.Merge(target.Parent)
	}
	e.applySelection(cursor.At(target, seam))
	e.changed()
}

// stripPlaceholderBreak drops the line break at the merging edge: the
// trailing break of the target, or the leading break of the merged-in
// block. A break at a seam is always redundant once the merge joins the
// content around it.
func stripPlaceholderBreak(e *Editor, n *html.Node, trailing bool) {
	var br *html.Node
	if trailing {
		br = n.LastChild
	} else {
		br = n.FirstChild
	}
	if e.schema.IsLineBreak(br) {
		n.RemoveChild(br)
	}
}

// FocusPrevBlock moves the selection to the end of the block preceding n's
// enclosing root-level block. A preceding card receives focus instead. It
// reports whether the selection moved.
func (e *Editor) FocusPrevBlock(n *html.Node) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || n == nil || !dom.Contains(e.root, n) {
		return false
	}
	top := n
	for top.Parent != nil && top.Parent != e.root {
		top = top.Parent
	}
	prev := dom.PrevMeaningfulSibling(top)
	if prev == nil {
		return false
	}
	if e.schema.IsCard(prev) {
		if inst := e.cards.Find(prev, false); inst != nil {
			e.applySelection(e.cards.Focus(inst))
			return true
		}
	}
	leaf := dom.LastLeaf(prev)
	if leaf.Type == html.TextNode {
		e.applySelection(cursor.At(leaf, len(leaf.Data)))
	} else {
		e.applySelection(cursor.At(leaf, dom.NodeLength(leaf)))
	}
	return true
}
