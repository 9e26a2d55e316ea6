package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Path is a chain of child indices from a root node to a descendant. Paths
// identify positions structurally, so they survive a full tree replacement
// where node identity does not.
type Path []int

// PathOf returns the path from root to n, or nil when n is not under root.
func PathOf(root, n *html.Node) Path {
	if n == nil || !Contains(root, n) {
		return nil
	}
	var rev []int
	for cur := n; cur != root; cur = cur.Parent {
		rev = append(rev, ChildIndex(cur))
	}
	p := make(Path, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		p = append(p, rev[i])
	}
	return p
}

// Resolve follows p from root and returns the addressed node, or nil when
// the path runs off the tree.
func (p Path) Resolve(root *html.Node) *html.Node {
	n := root
	for _, i := range p {
		n = ChildAt(n, i)
		if n == nil {
			return nil
		}
	}
	return n
}

// Equal reports whether two paths address the same position.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the path as a slash-separated index chain.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "/" + strings.Join(parts, "/")
}
