package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Card-related attributes. Card roots carry AttrCard; their interior
// structure uses AttrCardElement and AttrCardZone.
const (
	AttrCard         = "data-card"
	AttrCardType     = "data-card-type"
	AttrCardEditable = "data-card-editable"
	AttrCardValue    = "data-card-value"
	AttrCardElement  = "data-card-element"
	AttrCardZone     = "data-card-zone"

	// CardElementCenter marks the body of a card.
	CardElementCenter = "center"

	// Zone names for the invisible editable slivers flanking an inline card.
	CardZoneLeft  = "left"
	CardZoneRight = "right"
)

// AttrCustomize marks list wrappers produced by customized list plugins.
const AttrCustomize = "data-customize"

// TagSets declares which element names belong to each structural class.
// The zero value classifies nothing; use DefaultTagSets or a config-derived
// value.
type TagSets struct {
	Blocks     []string
	RootBlocks []string
	Marks      []string
	Inlines    []string
	Voids      []string
	Mergeable  []string
	Wrappers   []string
}

// DefaultTagSets returns the standard HTML classification.
func DefaultTagSets() TagSets {
	return TagSets{
		Blocks: []string{
			"p", "h1", "h2", "h3", "h4", "h5", "h6",
			"blockquote", "ul", "ol", "li", "pre", "div", "table", "tr", "td", "th",
		},
		RootBlocks: []string{
			"p", "h1", "h2", "h3", "h4", "h5", "h6",
			"blockquote", "ul", "ol", "pre", "table",
		},
		Marks:     []string{"strong", "b", "em", "i", "u", "s", "del", "code", "sub", "sup", "mark", "span", "font"},
		Inlines:   []string{"a", "label"},
		Voids:     []string{"br", "img", "hr", "input", "col", "area", "embed"},
		Mergeable: []string{"li", "td", "th", "tr"},
		Wrappers:  []string{"div"},
	}
}

// Schema answers the structural predicates the editing core needs. It owns
// no nodes; all methods are pure queries.
type Schema struct {
	blocks     map[string]bool
	rootBlocks map[string]bool
	marks      map[string]bool
	inlines    map[string]bool
	voids      map[string]bool
	mergeable  map[string]bool
	wrappers   map[string]bool
}

// NewSchema builds a Schema from tag sets.
func NewSchema(sets TagSets) *Schema {
	return &Schema{
		blocks:     toSet(sets.Blocks),
		rootBlocks: toSet(sets.RootBlocks),
		marks:      toSet(sets.Marks),
		inlines:    toSet(sets.Inlines),
		voids:      toSet(sets.Voids),
		mergeable:  toSet(sets.Mergeable),
		wrappers:   toSet(sets.Wrappers),
	}
}

func toSet(tags []string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[strings.ToLower(t)] = true
	}
	return m
}

// IsBlock reports whether n is a paragraph-like structural element.
// Card roots are classified by their card type, not their tag.
func (s *Schema) IsBlock(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if s.IsCard(n) {
		return Attr(n, AttrCardType) == "block"
	}
	return s.blocks[n.Data]
}

// IsRootBlock reports whether n's tag may sit directly under the editable
// root.
func (s *Schema) IsRootBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && s.rootBlocks[n.Data]
}

// IsMark reports whether n is an inline formatting wrapper.
func (s *Schema) IsMark(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && !s.IsCard(n) && s.marks[n.Data]
}

// IsInline reports whether n participates in text flow: a mark, a configured
// inline tag, or an inline card.
func (s *Schema) IsInline(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if s.IsCard(n) {
		return Attr(n, AttrCardType) == "inline"
	}
	return s.marks[n.Data] || s.inlines[n.Data]
}

// IsVoid reports whether n has no editable interior (line break, image...).
func (s *Schema) IsVoid(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && s.voids[n.Data]
}

// IsCard reports whether n is the root element of an embedded widget.
func (s *Schema) IsCard(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && Attr(n, AttrCard) != ""
}

// IsBlockCard reports whether n is a block-level card root.
func (s *Schema) IsBlockCard(n *html.Node) bool {
	return s.IsCard(n) && Attr(n, AttrCardType) == "block"
}

// IsInlineCard reports whether n is an inline card root.
func (s *Schema) IsInlineCard(n *html.Node) bool {
	return s.IsCard(n) && Attr(n, AttrCardType) == "inline"
}

// IsEditable reports whether the cursor may enter n's interior. Everything
// is editable except card roots that do not opt in.
func (s *Schema) IsEditable(n *html.Node) bool {
	if n == nil {
		return false
	}
	if s.IsCard(n) {
		return Attr(n, AttrCardEditable) == "true"
	}
	return true
}

// IsMergeable reports whether n's tag belongs to the can-merge set used by
// fragment insertion (list items, table cells).
func (s *Schema) IsMergeable(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && s.mergeable[n.Data]
}

// IsWrapper reports whether n is a side-effect-only wrapper tag that is
// stripped from fragment edges before a splice.
func (s *Schema) IsWrapper(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && !s.IsCard(n) && s.wrappers[n.Data]
}

// IsCustomize reports whether n belongs to a customized list structure.
func (s *Schema) IsCustomize(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && Attr(n, AttrCustomize) != ""
}

// IsLineBreak reports whether n is a line-break placeholder.
func (s *Schema) IsLineBreak(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == "br"
}

// IsEmpty reports whether n holds no semantic content: no visible text, no
// void elements other than a single placeholder line break, no cards.
func (s *Schema) IsEmpty(n *html.Node) bool {
	if n == nil {
		return true
	}
	if n.Type == html.TextNode {
		return StripZeroWidth(n.Data) == ""
	}
	if s.IsCard(n) || (s.IsVoid(n) && !s.IsLineBreak(n)) {
		return false
	}
	breaks := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if StripZeroWidth(c.Data) != "" {
				return false
			}
		case s.IsLineBreak(c):
			breaks++
			if breaks > 1 {
				return false
			}
		case c.Type == html.ElementNode:
			if !s.IsEmpty(c) {
				return false
			}
		}
	}
	return true
}
