package richedit

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/card"
	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

// InsertText commits a typed input run at the selection and applies
// input-boundary repair: followStyle enforcement at mark boundaries,
// placeholder cleanup, and inline-card zone extraction.
func (e *Editor) InsertText(s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	if s == "" {
		return nil
	}

	rng := e.sel
	if !e.hasSel {
		rng = CollapseAtEnd(e.root)
	}
	if !rng.Collapsed() {
		rng = e.deleteContent(rng, false)
	}
	ctx := e.normalizer.Normalize(rng)
	pos := ctx.Range.Start

	textNode, off := spliceText(pos, s)

	if zone := enclosingZone(pos.Node); zone != nil {
		if fixed, ok := e.repairCardZone(zone); ok {
			e.applySelection(fixed)
			e.changed()
			return nil
		}
	}

	repaired := e.repairer.RepairTyped(cursor.At(textNode, off), s)
	e.applySelection(repaired)
	e.changed()
	return nil
}

// spliceText inserts s at pos and returns the text node holding it plus
// the offset just after the run.
func spliceText(pos cursor.Position, s string) (*html.Node, int) {
	if pos.Node.Type == html.TextNode {
		data := pos.Node.Data
		pos.Node.Data = data[:pos.Offset] + s + data[pos.Offset:]
		return pos.Node, pos.Offset + len(s)
	}
	t := dom.Text(s)
	dom.InsertAt(pos.Node, t, pos.Offset)
	return t, len(s)
}

func enclosingZone(n *html.Node) *html.Node {
	return dom.Closest(n, func(c *html.Node) bool {
		return dom.Attr(c, dom.AttrCardZone) != ""
	})
}

// repairCardZone moves real text out of an inline card's cursor zone:
// typing at the card's edge must not corrupt the card's internal markup.
// The extracted text lands immediately before the card for the left zone
// and after it for the right, and the zone returns to its placeholder
// state.
func (e *Editor) repairCardZone(zone *html.Node) (cursor.Range, bool) {
	typed := dom.StripZeroWidth(dom.TextContent(zone))
	if typed == "" {
		return cursor.Range{}, false
	}
	cardRoot := e.schema.ClosestCard(zone)
	if cardRoot == nil || cardRoot.Parent == nil {
		return cursor.Range{}, false
	}
	card.ResetZone(zone)

	out := dom.Text(typed)
	if dom.Attr(zone, dom.AttrCardZone) == dom.CardZoneLeft {
		cardRoot.Parent.InsertBefore(out, cardRoot)
	} else {
		dom.InsertAfter(cardRoot, out)
	}
	e.joinWithTextSiblings(out)
	return cursor.At(out, offsetWithin(out, typed)), true
}

// joinWithTextSiblings merges out with adjacent text nodes so the zone
// repair never fragments the surrounding text flow.
func (e *Editor) joinWithTextSiblings(out *html.Node) {
	if prev := out.PrevSibling; prev != nil && prev.Type == html.TextNode {
		out.Data = prev.Data + out.Data
		out.Parent.RemoveChild(prev)
	}
	if next := out.NextSibling; next != nil && next.Type == html.TextNode {
		out.Data += next.Data
		out.Parent.RemoveChild(next)
	}
}

// offsetWithin returns the end offset of the extracted run inside the
// merged text node.
func offsetWithin(n *html.Node, typed string) int {
	if i := strings.Index(n.Data, typed); i >= 0 {
		return i + len(typed)
	}
	return len(n.Data)
}
