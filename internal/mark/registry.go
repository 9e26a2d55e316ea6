package mark

import (
	"sort"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Plugin is the per-tag mark policy.
type Plugin struct {
	// FollowStyle controls whether text typed at this mark's boundary
	// inherits the mark.
	FollowStyle bool
}

// Registry maps mark tags to their plugins and implements the structural
// operations over marks: compare, merge, unwrap.
type Registry struct {
	schema  *dom.Schema
	plugins map[string]Plugin
}

// NewRegistry creates a registry over the given schema.
func NewRegistry(schema *dom.Schema) *Registry {
	return &Registry{schema: schema, plugins: make(map[string]Plugin)}
}

// Register sets the plugin for a mark tag.
func (r *Registry) Register(tag string, p Plugin) {
	r.plugins[tag] = p
}

// FindPlugin returns the plugin for a mark node. Unregistered mark tags
// follow style by default.
func (r *Registry) FindPlugin(n *html.Node) Plugin {
	if n == nil || n.Type != html.ElementNode {
		return Plugin{FollowStyle: true}
	}
	if p, ok := r.plugins[n.Data]; ok {
		return p
	}
	return Plugin{FollowStyle: true}
}

// Compare reports structural equality of two marks: same tag and the same
// attribute set. Node identity is irrelevant.
func (r *Registry) Compare(a, b *html.Node) bool {
	if a == nil || b == nil || a.Type != html.ElementNode || b.Type != html.ElementNode {
		return false
	}
	if a.Data != b.Data || len(a.Attr) != len(b.Attr) {
		return false
	}
	return attrKey(a) == attrKey(b)
}

func attrKey(n *html.Node) string {
	pairs := make([]string, 0, len(n.Attr))
	for _, a := range n.Attr {
		pairs = append(pairs, a.Key+"\x00"+a.Val)
	}
	sort.Strings(pairs)
	key := ""
	for _, p := range pairs {
		key += p + "\x01"
	}
	return key
}

// FindMarks returns the mark ancestors of n, innermost first. When n itself
// is a mark it is included.
func (r *Registry) FindMarks(n *html.Node) []*html.Node {
	var marks []*html.Node
	for cur := n; cur != nil; cur = cur.Parent {
		if r.schema.IsMark(cur) {
			marks = append(marks, cur)
		}
	}
	return marks
}

// MergeAdjacent merges structurally-equal sibling marks throughout scope's
// subtree and returns the number of merges performed. Children of a merged
// pair are concatenated in order.
func (r *Registry) MergeAdjacent(scope *html.Node) int {
	if scope == nil {
		return 0
	}
	merged := 0
	for c := scope.FirstChild; c != nil; {
		next := c.NextSibling
		if r.schema.IsMark(c) && r.schema.IsMark(next) && r.Compare(c, next) {
			dom.MoveChildren(next, c)
			scope.RemoveChild(next)
			merged++
			continue // re-check c against its new next sibling
		}
		if c.Type == html.ElementNode && !r.schema.IsCard(c) {
			merged += r.MergeAdjacent(c)
		}
		c = c.NextSibling
	}
	return merged
}

// Unwrap removes each mark wrapper in list, lifting its children into the
// parent. Detached nodes are skipped.
func (r *Registry) Unwrap(list []*html.Node) {
	for _, m := range list {
		if m.Parent != nil && r.schema.IsMark(m) {
			dom.Unwrap(m)
		}
	}
}

// WrapIn nests n inside shallow clones of the given marks, innermost first,
// and returns the outermost wrapper (or n when no marks are given).
func WrapIn(n *html.Node, marks []*html.Node) *html.Node {
	out := n
	for _, m := range marks {
		w := dom.CloneShallow(m)
		w.AppendChild(out)
		out = w
	}
	return out
}
