package parser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

// Cursor sentinel tags. A serialized value may carry them to make a
// selection survive a full re-parse; they are extracted and removed before
// the tree goes live.
const (
	TagCursor = "cursor"
	TagAnchor = "anchor"
	TagFocus  = "focus"
)

// ParseFragment parses serialized markup into a list of detached nodes,
// using a div as parsing context so bare inline content survives.
func ParseFragment(value string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(value), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// ParseInto parses a value and replaces root's children with the result.
func ParseInto(root *html.Node, value string) error {
	nodes, err := ParseFragment(value)
	if err != nil {
		return err
	}
	for root.FirstChild != nil {
		root.RemoveChild(root.FirstChild)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return nil
}

// ExtractCursor locates cursor sentinels under root, removes them, and
// returns the range they described. A single <cursor/> yields a collapsed
// range; an <anchor/>/<focus/> pair yields their span. ok is false when no
// sentinel was present.
func ExtractCursor(root *html.Node) (cursor.Range, bool) {
	cur := findSentinel(root, TagCursor)
	if cur != nil {
		pos := removeSentinel(cur)
		return cursor.Range{Start: pos, End: pos}, true
	}

	anchor := findSentinel(root, TagAnchor)
	focus := findSentinel(root, TagFocus)
	if anchor == nil || focus == nil {
		return cursor.Range{}, false
	}
	// The anchor goes first: removeSentinel merges trailing text into the
	// preceding text node in place, so a position held on that node survives
	// the focus removal.
	start := removeSentinel(anchor)
	end := removeSentinel(focus)
	rng := cursor.Range{Start: start, End: end}
	return rng.Ordered(), true
}

// removeSentinel detaches the sentinel and returns the position it marked,
// rebound onto the surrounding text where possible. Text siblings split by
// the sentinel are merged back into one node.
func removeSentinel(n *html.Node) cursor.Position {
	parent := n.Parent
	i := dom.ChildIndex(n)
	prev, next := n.PrevSibling, n.NextSibling
	parent.RemoveChild(n)

	if prev != nil && prev.Type == html.TextNode {
		off := len(prev.Data)
		if next != nil && next.Type == html.TextNode {
			prev.Data += next.Data
			parent.RemoveChild(next)
		}
		return cursor.Position{Node: prev, Offset: off}
	}
	if next != nil && next.Type == html.TextNode {
		return cursor.Position{Node: next, Offset: 0}
	}
	return cursor.Position{Node: parent, Offset: i}
}

func findSentinel(root *html.Node, tag string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}
