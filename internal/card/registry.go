package card

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

// Registry owns the live card instances of one editor, keyed by root node.
// The editing core queries, selects and focuses cards through it; card
// bodies stay opaque.
type Registry struct {
	schema    *dom.Schema
	defs      map[string]Definition
	instances map[*html.Node]*Instance
}

// NewRegistry creates an empty registry over the given schema.
func NewRegistry(schema *dom.Schema) *Registry {
	return &Registry{
		schema:    schema,
		defs:      make(map[string]Definition),
		instances: make(map[*html.Node]*Instance),
	}
}

// Define registers a card definition, replacing any previous definition of
// the same name.
func (r *Registry) Define(def Definition) {
	r.defs[def.Name] = def
}

// Definition returns the named definition.
func (r *Registry) Definition(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Insert builds a detached card root for the named definition. The caller
// splices it into the tree; the instance is tracked immediately.
func (r *Registry) Insert(name, value string) (*html.Node, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCard, name)
	}

	tag := "div"
	if def.Kind == KindInline {
		tag = "span"
	}
	root := dom.Element(tag,
		dom.AttrCard, def.Name,
		dom.AttrCardType, def.Kind.String(),
	)
	if def.Editable {
		dom.SetAttr(root, dom.AttrCardEditable, "true")
	}
	if value != "" {
		dom.SetAttr(root, dom.AttrCardValue, value)
	}

	if def.Kind == KindInline && def.CursorZones {
		left := dom.Element("span", dom.AttrCardZone, dom.CardZoneLeft)
		left.AppendChild(dom.Text(dom.ZeroWidth))
		root.AppendChild(left)
	}
	center := dom.Element(tag, dom.AttrCardElement, dom.CardElementCenter)
	if def.Render != nil {
		if body := def.Render(value); body != nil {
			center.AppendChild(body)
		}
	}
	root.AppendChild(center)
	if def.Kind == KindInline && def.CursorZones {
		right := dom.Element("span", dom.AttrCardZone, dom.CardZoneRight)
		right.AppendChild(dom.Text(dom.ZeroWidth))
		root.AppendChild(right)
	}

	inst := &Instance{ID: uuid.NewString(), Def: def, Root: root}
	r.instances[root] = inst
	return root, nil
}

// Find returns the instance whose root is n or the nearest card ancestor of
// n. With cardOnly set, only registered instances are returned; otherwise a
// card root without an instance (markup loaded via a value reset) is adopted
// on the fly when its definition is known.
func (r *Registry) Find(n *html.Node, cardOnly bool) *Instance {
	root := r.schema.ClosestCard(n)
	if root == nil {
		return nil
	}
	if inst, ok := r.instances[root]; ok {
		return inst
	}
	if cardOnly {
		return nil
	}
	return r.adopt(root)
}

// Render scans the subtree for card roots without instances and adopts
// those with known definitions. Called after a full value replacement.
func (r *Registry) Render(root *html.Node) int {
	adopted := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if r.schema.IsCard(n) {
			if _, ok := r.instances[n]; !ok && r.adopt(n) != nil {
				adopted++
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return adopted
}

func (r *Registry) adopt(root *html.Node) *Instance {
	def, ok := r.defs[dom.Attr(root, dom.AttrCard)]
	if !ok {
		return nil
	}
	inst := &Instance{ID: uuid.NewString(), Def: def, Root: root}
	r.instances[root] = inst
	return inst
}

// Remove drops the instance rooted at root and detaches the root from the
// tree.
func (r *Registry) Remove(root *html.Node) error {
	if !r.schema.IsCard(root) {
		return ErrNotCard
	}
	delete(r.instances, root)
	dom.Detach(root)
	return nil
}

// GC drops instances whose roots are no longer under the editable root and
// returns how many were collected.
func (r *Registry) GC(editableRoot *html.Node) int {
	collected := 0
	for root := range r.instances {
		if !dom.Contains(editableRoot, root) {
			delete(r.instances, root)
			collected++
		}
	}
	return collected
}

// Count returns the number of live instances.
func (r *Registry) Count() int {
	return len(r.instances)
}

// Focus returns the range representing focus on the card: inside the center
// for editable cards, immediately after the root otherwise. The OnFocus
// capability fires when present.
func (r *Registry) Focus(inst *Instance) cursor.Range {
	if inst.Def.OnFocus != nil {
		inst.Def.OnFocus(inst)
	}
	if inst.Def.Editable {
		if center := Center(inst.Root); center != nil {
			return cursor.At(center, dom.NodeLength(center))
		}
	}
	if inst.Root.Parent != nil {
		return cursor.At(inst.Root.Parent, dom.ChildIndex(inst.Root)+1)
	}
	return cursor.At(inst.Root, 0)
}

// GetSingleSelectedCard returns the instance when rng covers exactly one
// node and that node is a card root.
func (r *Registry) GetSingleSelectedCard(rng cursor.Range) *Instance {
	if rng.Collapsed() || rng.Start.Node != rng.End.Node {
		return nil
	}
	if rng.End.Offset-rng.Start.Offset != 1 {
		return nil
	}
	n := dom.ChildAt(rng.Start.Node, rng.Start.Offset)
	if n == nil || !r.schema.IsCard(n) {
		return nil
	}
	return r.Find(n, false)
}

// Activate fires the card's activation capability for the card containing n.
func (r *Registry) Activate(n *html.Node, trigger string) bool {
	inst := r.Find(n, false)
	if inst == nil || inst.Def.OnActivate == nil {
		return false
	}
	inst.Def.OnActivate(inst, trigger)
	return true
}
