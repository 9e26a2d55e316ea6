package card

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// Kind distinguishes block cards from inline cards.
type Kind int

const (
	// KindBlock cards occupy a full structural slot like a paragraph.
	KindBlock Kind = iota

	// KindInline cards sit inside text flow.
	KindInline
)

// String returns the kind name as stored in data-card-type.
func (k Kind) String() string {
	if k == KindInline {
		return "inline"
	}
	return "block"
}

// Definition describes a card type as a capability set.
type Definition struct {
	// Name identifies the card type; stored in the data-card attribute.
	Name string

	// Kind is block or inline.
	Kind Kind

	// Editable allows the cursor to enter the card's interior.
	Editable bool

	// CursorZones gives an inline card left/right editable slivers that
	// capture adjacent typing.
	CursorZones bool

	// Render produces the card body for a value. A nil Render yields an
	// empty body.
	Render func(value string) *html.Node

	// OnFocus is called when the selection lands on the card.
	OnFocus func(inst *Instance)

	// OnChange lets the card intercept a change that occurred inside it.
	// Returning true consumes the change, suppressing editor notification.
	OnChange func(inst *Instance) bool

	// OnActivate is called when the host activates the card (click,
	// keyboard trigger).
	OnActivate func(inst *Instance, trigger string)
}

// Instance is a live card in the tree.
type Instance struct {
	// ID uniquely identifies this instance across its lifetime.
	ID string

	// Def is the definition the instance was built from.
	Def Definition

	// Root is the card's root element in the tree.
	Root *html.Node
}

// Value returns the card's serialized value attribute.
func (i *Instance) Value() string {
	return dom.Attr(i.Root, dom.AttrCardValue)
}

// SetValue updates the card's serialized value attribute.
func (i *Instance) SetValue(v string) {
	dom.SetAttr(i.Root, dom.AttrCardValue, v)
}

// Center returns the card's body element, or nil when absent.
func Center(root *html.Node) *html.Node {
	return findByAttr(root, dom.AttrCardElement, dom.CardElementCenter)
}

// Zone returns an inline card's left or right cursor zone, or nil.
func Zone(root *html.Node, name string) *html.Node {
	return findByAttr(root, dom.AttrCardZone, name)
}

// ResetZone restores a cursor zone to its placeholder state.
func ResetZone(zone *html.Node) {
	for zone.FirstChild != nil {
		zone.RemoveChild(zone.FirstChild)
	}
	zone.AppendChild(dom.Text(dom.ZeroWidth))
}

func findByAttr(n *html.Node, key, val string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if dom.Attr(c, key) == val {
				return c
			}
			if found := findByAttr(c, key, val); found != nil {
				return found
			}
		}
	}
	return nil
}
