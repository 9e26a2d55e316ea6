package cursor

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Position is a single point in the tree: a byte offset within a text node
// or a child index within an element.
type Position struct {
	Node   *html.Node
	Offset int
}

// Valid reports whether the position addresses an existing node with an
// in-bounds offset.
func (p Position) Valid() bool {
	return p.Node != nil && p.Offset >= 0 && p.Offset <= dom.NodeLength(p.Node)
}

// Clamp returns the position with its offset forced into bounds. Callers
// re-clamp after sibling removal invalidates a held offset.
func (p Position) Clamp() Position {
	if p.Node == nil {
		return p
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if max := dom.NodeLength(p.Node); p.Offset > max {
		p.Offset = max
	}
	return p
}

// Equal reports whether two positions address the same point.
func (p Position) Equal(o Position) bool {
	return p.Node == o.Node && p.Offset == o.Offset
}

// Compare orders two positions in document order: -1, 0 or 1.
func (p Position) Compare(o Position) int {
	if p.Node == o.Node {
		switch {
		case p.Offset < o.Offset:
			return -1
		case p.Offset > o.Offset:
			return 1
		}
		return 0
	}
	// Order by the boundary each position sits before. A position inside a
	// node that is an ancestor of the other compares by the branch index.
	if dom.Contains(p.Node, o.Node) {
		branch := childOnPathTo(p.Node, o.Node)
		if dom.ChildIndex(branch) < p.Offset {
			return 1
		}
		return -1
	}
	if dom.Contains(o.Node, p.Node) {
		branch := childOnPathTo(o.Node, p.Node)
		if dom.ChildIndex(branch) < o.Offset {
			return -1
		}
		return 1
	}
	return dom.Compare(p.Node, o.Node)
}

// childOnPathTo returns the child of ancestor on the path down to n.
func childOnPathTo(ancestor, n *html.Node) *html.Node {
	for n != nil && n.Parent != ancestor {
		n = n.Parent
	}
	return n
}

// Range is a pair of positions. The zero value is an invalid range; build
// one with At, Span or the setters.
type Range struct {
	Start Position
	End   Position
}

// At returns a collapsed range at the given position.
func At(n *html.Node, offset int) Range {
	p := Position{Node: n, Offset: offset}.Clamp()
	return Range{Start: p, End: p}
}

// Span returns a range between two positions, clamped into bounds.
func Span(start, end Position) Range {
	return Range{Start: start.Clamp(), End: end.Clamp()}
}

// Collapsed reports whether start and end are the same point.
func (r Range) Collapsed() bool {
	return r.Start.Equal(r.End)
}

// Valid reports whether both ends address existing in-bounds points.
func (r Range) Valid() bool {
	return r.Start.Valid() && r.End.Valid()
}

// Clone returns a copy of the range. Range is a value type, so this is a
// plain copy; it exists so call sites read the same as destructive
// inspection sites in the mutators.
func (r Range) Clone() Range {
	return r
}

// Equal reports whether both ranges address the same pair of points.
func (r Range) Equal(o Range) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

// Collapse returns the range collapsed to its start or end.
func (r Range) Collapse(toStart bool) Range {
	if toStart {
		r.End = r.Start
	} else {
		r.Start = r.End
	}
	return r
}

// SetStart returns the range with a new clamped start position.
func (r Range) SetStart(n *html.Node, offset int) Range {
	r.Start = Position{Node: n, Offset: offset}.Clamp()
	return r
}

// SetEnd returns the range with a new clamped end position.
func (r Range) SetEnd(n *html.Node, offset int) Range {
	r.End = Position{Node: n, Offset: offset}.Clamp()
	return r
}

// SetStartBefore returns the range with its start immediately before n.
func (r Range) SetStartBefore(n *html.Node) Range {
	return r.SetStart(n.Parent, dom.ChildIndex(n))
}

// SetStartAfter returns the range with its start immediately after n.
func (r Range) SetStartAfter(n *html.Node) Range {
	return r.SetStart(n.Parent, dom.ChildIndex(n)+1)
}

// SetEndBefore returns the range with its end immediately before n.
func (r Range) SetEndBefore(n *html.Node) Range {
	return r.SetEnd(n.Parent, dom.ChildIndex(n))
}

// SetEndAfter returns the range with its end immediately after n.
func (r Range) SetEndAfter(n *html.Node) Range {
	return r.SetEnd(n.Parent, dom.ChildIndex(n)+1)
}

// SelectNode returns a range covering exactly n.
func SelectNode(n *html.Node) Range {
	i := dom.ChildIndex(n)
	return Range{
		Start: Position{Node: n.Parent, Offset: i},
		End:   Position{Node: n.Parent, Offset: i + 1},
	}
}

// SelectNodeContents returns a range covering everything inside n.
func SelectNodeContents(n *html.Node) Range {
	return Range{
		Start: Position{Node: n, Offset: 0},
		End:   Position{Node: n, Offset: dom.NodeLength(n)},
	}
}

// CommonAncestor returns the deepest node containing both ends.
func (r Range) CommonAncestor() *html.Node {
	if r.Start.Node == r.End.Node {
		return r.Start.Node
	}
	for n := r.Start.Node; n != nil; n = n.Parent {
		if dom.Contains(n, r.End.Node) {
			return n
		}
	}
	return nil
}

// Ordered returns the range with start and end swapped if they are
// reversed in document order.
func (r Range) Ordered() Range {
	if r.Start.Compare(r.End) > 0 {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// String renders the range for logs and test failures.
func (r Range) String() string {
	name := func(p Position) string {
		if p.Node == nil {
			return "nil"
		}
		if p.Node.Type == html.TextNode {
			return fmt.Sprintf("#text(%q)", p.Node.Data)
		}
		return p.Node.Data
	}
	return fmt.Sprintf("[%s:%d, %s:%d]", name(r.Start), r.Start.Offset, name(r.End), r.End.Offset)
}
