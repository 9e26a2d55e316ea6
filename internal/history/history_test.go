package history

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

func buildTree(t *testing.T, fragment string) *html.Node {
	t.Helper()
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	root := dom.Element("div")
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

func TestCacheSurvivesTreeReplacement(t *testing.T) {
	root := buildTree(t, "<p>hello</p><p>world</p>")
	text := root.LastChild.FirstChild

	var c RangeCache
	if !c.CacheBeforeCommand(root, cursor.At(text, 3)) {
		t.Fatal("CacheBeforeCommand failed")
	}

	// Replace the whole tree with a structural twin, as setValue does.
	rebuilt := buildTree(t, "<p>hello</p><p>world</p>")
	got, ok := c.Restore(rebuilt)
	if !ok {
		t.Fatal("Restore failed on the rebuilt tree")
	}
	if got.Start.Node != rebuilt.LastChild.FirstChild || got.Start.Offset != 3 {
		t.Errorf("restored range = %v, want offset 3 in second paragraph", got)
	}
}

func TestCacheRejectsForeignRange(t *testing.T) {
	root := buildTree(t, "<p>a</p>")
	other := buildTree(t, "<p>b</p>")

	var c RangeCache
	if c.CacheBeforeCommand(root, cursor.At(other.FirstChild.FirstChild, 0)) {
		t.Error("range outside root must not be cached")
	}
	if _, ok := c.RangeBeforeCommand(); ok {
		t.Error("cache should stay empty after a rejected capture")
	}
}

func TestCacheClear(t *testing.T) {
	root := buildTree(t, "<p>a</p>")

	var c RangeCache
	c.CacheBeforeCommand(root, cursor.At(root.FirstChild.FirstChild, 1))
	c.Clear()

	if _, ok := c.RangeBeforeCommand(); ok {
		t.Error("cache should be empty after Clear")
	}
	if _, ok := c.Restore(root); ok {
		t.Error("Restore should fail after Clear")
	}
}

func TestRestoreClampsOnShrunkenTree(t *testing.T) {
	root := buildTree(t, "<p>hello</p>")
	text := root.FirstChild.FirstChild

	var c RangeCache
	c.CacheBeforeCommand(root, cursor.At(text, 5))

	shrunk := buildTree(t, "<p>hi</p>")
	got, ok := c.Restore(shrunk)
	if !ok {
		t.Fatal("Restore failed")
	}
	if got.Start.Offset != 2 {
		t.Errorf("offset should clamp to the shorter text, got %d", got.Start.Offset)
	}
}
