package parser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

// SerializeOptions control how a tree is rendered back to a value.
type SerializeOptions struct {
	// Cursor, when set, embeds sentinel elements describing the range so the
	// selection can be restored after a re-parse of the value.
	Cursor *cursor.Range
}

// Serialize renders root's children to markup. The live tree is never
// touched: rendering happens on a deep clone with every zero-width
// placeholder stripped, so placeholders stay an in-tree concern and never
// reach the document value.
func Serialize(root *html.Node, opts SerializeOptions) (string, error) {
	clone := dom.CloneDeep(root)
	if opts.Cursor != nil {
		embedCursor(root, clone, *opts.Cursor)
	}
	stripPlaceholders(clone)

	var b strings.Builder
	for c := clone.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("render value: %w", err)
		}
	}
	return b.String(), nil
}

// Value is Serialize without options, for call sites that only compare
// serialized output.
func Value(root *html.Node) (string, error) {
	return Serialize(root, SerializeOptions{})
}

// EscapeText escapes plain text for safe inclusion in markup.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// embedCursor re-resolves rng from the live tree onto the clone and inserts
// sentinel elements at its ends. The end sentinel goes in first so the
// start offset stays valid when both ends share a text node.
func embedCursor(root, clone *html.Node, rng cursor.Range) {
	rp, ok := rng.Ordered().ToPaths(root)
	if !ok {
		return
	}
	mapped, ok := cursor.FromPaths(clone, rp)
	if !ok {
		return
	}
	if mapped.Collapsed() {
		insertSentinelAt(mapped.Start, TagCursor)
		return
	}
	insertSentinelAt(mapped.End, TagFocus)
	insertSentinelAt(mapped.Start, TagAnchor)
}

func insertSentinelAt(p cursor.Position, tag string) {
	el := dom.Element(tag)
	if p.Node.Type == html.TextNode {
		if p.Node.Parent == nil {
			return
		}
		if tail := dom.SplitText(p.Node, p.Offset); tail != nil {
			p.Node.Parent.InsertBefore(el, tail)
		} else if p.Offset == 0 {
			p.Node.Parent.InsertBefore(el, p.Node)
		} else {
			dom.InsertAfter(p.Node, el)
		}
		return
	}
	dom.InsertAt(p.Node, el, p.Offset)
}

// stripPlaceholders removes zero-width placeholder characters from every
// text node under n, dropping text nodes that held nothing else.
func stripPlaceholders(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode {
			c.Data = dom.StripZeroWidth(c.Data)
			if c.Data == "" {
				n.RemoveChild(c)
			}
		} else {
			stripPlaceholders(c)
		}
		c = next
	}
}
