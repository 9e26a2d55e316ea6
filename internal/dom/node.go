package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates a detached element node with the given tag and optional
// attribute key/value pairs.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// Text creates a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Attr returns the value of the named attribute, or "" when absent.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute if present.
func RemoveAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// ChildIndex returns n's index among its parent's children, or -1 for a
// detached node.
func ChildIndex(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// ChildAt returns the i-th child of n, or nil when out of range.
func ChildAt(n *html.Node, i int) *html.Node {
	if n == nil || i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; c = c.NextSibling {
		i--
	}
	return c
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// NodeLength returns the addressable length of n: text length in bytes for
// text nodes, child count for elements.
func NodeLength(n *html.Node) int {
	if n == nil {
		return 0
	}
	if n.Type == html.TextNode {
		return len(n.Data)
	}
	return ChildCount(n)
}

// Detach removes n from its parent. Detaching an already-detached node is a
// no-op.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter inserts n immediately after ref under ref's parent.
func InsertAfter(ref, n *html.Node) {
	if ref == nil || ref.Parent == nil {
		return
	}
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// InsertAt inserts n as the i-th child of parent, clamping i to the valid
// range.
func InsertAt(parent, n *html.Node, i int) {
	Detach(n)
	parent.InsertBefore(n, ChildAt(parent, i))
}

// Prepend inserts n as the first child of parent.
func Prepend(parent, n *html.Node) {
	Detach(n)
	parent.InsertBefore(n, parent.FirstChild)
}

// MoveChildren appends all children of src to dst, preserving order.
func MoveChildren(src, dst *html.Node) {
	for src.FirstChild != nil {
		c := src.FirstChild
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

// Unwrap replaces n with its children.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// CloneShallow copies n without its children.
func CloneShallow(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
	}
	c.Attr = append([]html.Attribute(nil), n.Attr...)
	return c
}

// CloneDeep copies n and its entire subtree.
func CloneDeep(n *html.Node) *html.Node {
	c := CloneShallow(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(CloneDeep(child))
	}
	return c
}

// Contains reports whether n is ancestor or equal to target.
func Contains(ancestor, target *html.Node) bool {
	for n := target; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Closest walks from n upward (inclusive) and returns the first node
// satisfying pred, or nil.
func Closest(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for ; n != nil; n = n.Parent {
		if pred(n) {
			return n
		}
	}
	return nil
}

// ClosestBlock returns the nearest enclosing block element of n, inclusive.
func (s *Schema) ClosestBlock(n *html.Node) *html.Node {
	return Closest(n, s.IsBlock)
}

// ClosestCard returns the nearest enclosing card root of n, inclusive.
func (s *Schema) ClosestCard(n *html.Node) *html.Node {
	return Closest(n, s.IsCard)
}

// TextContent concatenates the text of n's subtree.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

// FirstLeaf returns the deepest first descendant of n, or n itself.
func FirstLeaf(n *html.Node) *html.Node {
	for n.FirstChild != nil {
		n = n.FirstChild
	}
	return n
}

// LastLeaf returns the deepest last descendant of n, or n itself.
func LastLeaf(n *html.Node) *html.Node {
	for n.LastChild != nil {
		n = n.LastChild
	}
	return n
}

// Compare orders two nodes of the same tree by document position: -1 when a
// precedes b, 0 when equal, 1 when a follows b. An ancestor precedes its
// descendants.
func Compare(a, b *html.Node) int {
	if a == b {
		return 0
	}
	pa := ancestorChain(a)
	pb := ancestorChain(b)
	// Walk from the root until the chains diverge.
	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa):
		return -1 // a is an ancestor of b
	case i == len(pb):
		return 1 // b is an ancestor of a
	case i == 0:
		return 0 // disjoint trees; callers must not rely on this
	}
	ia := ChildIndex(pa[i])
	ib := ChildIndex(pb[i])
	if ia < ib {
		return -1
	}
	if ia > ib {
		return 1
	}
	return 0
}

// ancestorChain returns the root-first chain of ancestors ending at n.
func ancestorChain(n *html.Node) []*html.Node {
	var chain []*html.Node
	for ; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// PrevMeaningfulSibling returns the nearest previous sibling that is not an
// empty text node.
func PrevMeaningfulSibling(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.TextNode && StripZeroWidth(strings.TrimSpace(p.Data)) == "" {
			continue
		}
		return p
	}
	return nil
}

// NextMeaningfulSibling returns the nearest next sibling that is not an
// empty text node.
func NextMeaningfulSibling(n *html.Node) *html.Node {
	for p := n.NextSibling; p != nil; p = p.NextSibling {
		if p.Type == html.TextNode && StripZeroWidth(strings.TrimSpace(p.Data)) == "" {
			continue
		}
		return p
	}
	return nil
}
