package richedit

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/card"
	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/parser"
)

// InsertFragment parses markup and splices it at the current selection. A
// non-collapsed selection is deleted first. The callback, when non-nil,
// receives the final range before it is applied and the change committed.
func (e *Editor) InsertFragment(fragment string, callback func(cursor.Range)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	nodes, err := parser.ParseFragment(fragment)
	if err != nil {
		return err
	}
	nodes = pruneEmptyText(nodes)
	if len(nodes) == 0 {
		return nil
	}
	e.insertNodes(nodes, callback)
	return nil
}

// InsertMarkdown converts markdown to a fragment and inserts it.
func (e *Editor) InsertMarkdown(src string) error {
	frag, err := parser.MarkdownToHTML(src)
	if err != nil {
		return err
	}
	return e.InsertFragment(frag, nil)
}

// HandlePaste routes an already-extracted clipboard payload: markup is
// inserted as a fragment; plain text that reads as markdown is converted
// first; remaining plain text is escaped with line breaks preserved.
func (e *Editor) HandlePaste(htmlPayload, text string) error {
	switch {
	case htmlPayload != "":
		return e.InsertFragment(htmlPayload, nil)
	case parser.LooksLikeMarkdown(text):
		return e.InsertMarkdown(text)
	case text != "":
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = parser.EscapeText(line)
		}
		return e.InsertFragment(strings.Join(lines, "<br/>"), nil)
	}
	return nil
}

// InsertCard builds a card of the named definition and inserts it at the
// selection. The focus range of the new card becomes the selection.
func (e *Editor) InsertCard(name, value string) (*card.Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil, ErrDestroyed
	}
	root, err := e.cards.Insert(name, value)
	if err != nil {
		return nil, err
	}
	e.insertNodes([]*html.Node{root}, nil)
	inst := e.cards.Find(root, true)
	e.applySelection(e.cards.Focus(inst))
	return inst, nil
}

// insertNodes is the fragment splice shared by the insert entry points.
// Callers hold e.mu and guarantee nodes is non-empty.
func (e *Editor) insertNodes(nodes []*html.Node, callback func(cursor.Range)) {
	rng := e.sel
	if !e.hasSel {
		rng = CollapseAtEnd(e.root)
	}
	safe := e.normalizer.SafeRange(rng)

	sameBlock := e.schema.ClosestBlock(safe.Start.Node) == e.schema.ClosestBlock(safe.End.Node)
	atTail := positionAtNodeEnd(safe.End, e.schema.ClosestBlock(safe.End.Node))

	if !safe.Collapsed() {
		safe = e.deleteContent(safe, !(sameBlock && atTail))
		safe = e.normalizer.SafeRange(safe)
	}

	first := nodes[0]
	if !e.schema.IsBlock(first) && !e.schema.IsCard(first) {
		final := e.insertInline(safe, nodes)
		if callback != nil {
			callback(final)
		}
		e.applySelection(final)
		e.changed()
		return
	}

	final := e.insertBlocks(safe, nodes)
	if callback != nil {
		callback(final)
	}
	e.applySelection(final)
	e.changed()
}

// insertInline splices non-block nodes into text flow at the cursor.
func (e *Editor) insertInline(safe cursor.Range, nodes []*html.Node) cursor.Range {
	pos := safe.ShrunkToText(e.schema).Start

	var parent *html.Node
	var idx int
	if pos.Node.Type == html.TextNode {
		parent = pos.Node.Parent
		if tail := dom.SplitText(pos.Node, pos.Offset); tail != nil {
			idx = dom.ChildIndex(tail)
		} else if pos.Offset == 0 {
			idx = dom.ChildIndex(pos.Node)
		} else {
			idx = dom.ChildIndex(pos.Node) + 1
		}
	} else {
		parent = pos.Node
		idx = pos.Offset
	}
	for _, n := range nodes {
		dom.InsertAt(parent, n, idx)
		idx++
	}

	last := nodes[len(nodes)-1]
	final := cursor.At(last, dom.NodeLength(last))
	if block := e.schema.ClosestBlock(parent); block != nil {
		e.marks.MergeAdjacent(block)
	}
	return final
}

// insertBlocks deep-cuts the tree at the cursor and splices block-level
// fragment nodes between the two halves.
func (e *Editor) insertBlocks(safe cursor.Range, nodes []*html.Node) cursor.Range {
	nodes = e.wrapLooseItems(nodes)
	nodes = e.stripEdgeWrappers(nodes)
	if len(nodes) == 0 {
		return safe
	}

	left, right := e.splitAtRootBlock(safe.Start)

	parent := e.root
	idx := dom.ChildCount(e.root)
	switch {
	case right != nil:
		parent = right.Parent
		idx = dom.ChildIndex(right)
	case left != nil:
		parent = left.Parent
		idx = dom.ChildIndex(left) + 1
	}
	for _, n := range nodes {
		dom.InsertAt(parent, n, idx)
		idx++
	}
	firstIn, lastIn := nodes[0], nodes[len(nodes)-1]

	e.mergeSeam(left, firstIn, true)

	// The cursor lands at the end of the inserted content, so the tail is
	// captured before the right seam appends the split-off remainder.
	tail := dom.LastLeaf(lastIn)
	var final cursor.Range
	if tail.Type == html.TextNode {
		final = cursor.At(tail, len(tail.Data))
	} else {
		final = cursor.At(tail, dom.NodeLength(tail))
	}

	e.mergeSeam(lastIn, right, false)
	e.lists.Merge(parent)

	return final
}

// mergeSeam joins an adjoining pair left over by the splice. Same-shape
// neighbors merge into the fragment side, which always survives; an empty
// non-fragment neighbor is simply removed. intoB marks b as the fragment
// side.
func (e *Editor) mergeSeam(a, b *html.Node, intoB bool) {
	if a == nil || b == nil || a.Parent == nil || b.Parent == nil {
		return
	}
	outer, frag := a, b
	if !intoB {
		outer, frag = b, a
	}
	if e.schema.IsEmpty(outer) {
		dom.Detach(outer)
		return
	}
	if !e.sameShape(outer, frag) {
		return
	}
	if intoB {
		// Prepend the preceding block's children into the fragment head.
		for outer.LastChild != nil {
			c := outer.LastChild
			outer.RemoveChild(c)
			dom.Prepend(frag, c)
		}
	} else {
		dom.MoveChildren(outer, frag)
	}
	dom.Detach(outer)
	e.marks.MergeAdjacent(frag)
}

// sameShape reports whether two nodes merge through a seam: same tag, and
// for lists the same list identity.
func (e *Editor) sameShape(a, b *html.Node) bool {
	if a.Type != html.ElementNode || b.Type != html.ElementNode {
		return false
	}
	if e.schema.IsCard(a) || e.schema.IsCard(b) {
		return false
	}
	if e.lists.IsList(a) || e.lists.IsList(b) {
		return e.lists.IsSame(a, b)
	}
	return a.Data == b.Data
}

// splitAtRootBlock splits the tree from pos up to the root-level block
// boundary and returns the two halves. Either half may be nil when the
// position sits at the root itself. Text sitting directly under the root
// splits into its two halves as the slots; there is no block to climb.
func (e *Editor) splitAtRootBlock(pos cursor.Position) (left, right *html.Node) {
	cur := pos.Node
	idx := pos.Offset
	if cur.Type == html.TextNode {
		switch {
		case idx == 0:
			idx = dom.ChildIndex(cur)
		case idx >= len(cur.Data):
			idx = dom.ChildIndex(cur) + 1
		default:
			tail := dom.SplitText(cur, idx)
			idx = dom.ChildIndex(tail)
		}
		cur = cur.Parent
	}
	if cur == e.root {
		return dom.ChildAt(e.root, idx-1), dom.ChildAt(e.root, idx)
	}

	top := cur
	for top.Parent != nil && top.Parent != e.root {
		top = top.Parent
	}
	if top.Parent == nil {
		return nil, nil
	}
	for {
		tail := dom.CloneShallow(cur)
		for dom.ChildCount(cur) > idx {
			c := dom.ChildAt(cur, idx)
			cur.RemoveChild(c)
			tail.AppendChild(c)
		}
		dom.InsertAfter(cur, tail)
		if cur == top {
			return cur, tail
		}
		idx = dom.ChildIndex(tail)
		cur = cur.Parent
	}
}

// wrapperTags maps a mergeable item tag to the wrapper it needs when the
// fragment carries it bare.
var wrapperTags = map[string]string{
	"li": "ul",
	"td": "tr",
	"th": "tr",
	"tr": "table",
}

// wrapLooseItems wraps runs of bare mergeable items in the wrapper their
// tag requires, so the splice never puts an li or table cell directly
// under the root. Wrapping repeats until the fragment tops out in
// non-mergeable tags, so a bare cell gains its row and then its table.
func (e *Editor) wrapLooseItems(nodes []*html.Node) []*html.Node {
	for {
		var out []*html.Node
		var run *html.Node
		var runTag string
		wrapped := false
		for _, n := range nodes {
			tag := ""
			if e.schema.IsMergeable(n) {
				tag = wrapperTags[n.Data]
			}
			if tag == "" {
				run = nil
				out = append(out, n)
				continue
			}
			if run == nil || runTag != tag {
				run = dom.Element(tag)
				runTag = tag
				out = append(out, run)
			}
			run.AppendChild(n)
			wrapped = true
		}
		nodes = out
		if !wrapped {
			return nodes
		}
	}
}

// stripEdgeWrappers unwraps side-effect-only wrapper elements from the
// fragment edges, replacing each with its children.
func (e *Editor) stripEdgeWrappers(nodes []*html.Node) []*html.Node {
	for len(nodes) > 0 && e.schema.IsWrapper(nodes[0]) {
		nodes = append(childrenOf(nodes[0]), nodes[1:]...)
	}
	for len(nodes) > 0 && e.schema.IsWrapper(nodes[len(nodes)-1]) {
		last := nodes[len(nodes)-1]
		nodes = append(nodes[:len(nodes)-1], childrenOf(last)...)
	}
	return pruneEmptyText(nodes)
}

func childrenOf(n *html.Node) []*html.Node {
	var out []*html.Node
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		out = append(out, c)
	}
	return out
}

// pruneEmptyText drops whitespace-only text nodes from a fragment list.
func pruneEmptyText(nodes []*html.Node) []*html.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(dom.StripZeroWidth(n.Data)) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// positionAtNodeEnd reports whether p addresses the very last position
// inside n.
func positionAtNodeEnd(p cursor.Position, n *html.Node) bool {
	if n == nil {
		return false
	}
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
