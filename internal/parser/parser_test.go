package parser

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

func mustParse(t *testing.T, value string) *html.Node {
	t.Helper()
	root := dom.Element("div")
	if err := ParseInto(root, value); err != nil {
		t.Fatalf("ParseInto(%q): %v", value, err)
	}
	return root
}

func TestParseIntoReplacesChildren(t *testing.T) {
	root := dom.Element("div")
	root.AppendChild(dom.Text("stale"))

	if err := ParseInto(root, "<p>a</p><p>b</p>"); err != nil {
		t.Fatalf("ParseInto: %v", err)
	}
	if n := dom.ChildCount(root); n != 2 {
		t.Fatalf("child count = %d, want 2", n)
	}
	if root.FirstChild.Data != "p" || dom.TextContent(root) != "ab" {
		t.Errorf("unexpected tree content %q", dom.TextContent(root))
	}
}

func TestParseFragmentBareInline(t *testing.T) {
	nodes, err := ParseFragment("plain <strong>bold</strong>")
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(nodes))
	}
	if nodes[1].Data != "strong" {
		t.Errorf("second node = %q, want strong", nodes[1].Data)
	}
}

func TestSerializeStripsPlaceholders(t *testing.T) {
	root := mustParse(t, `<p><a href="#">`+dom.ZeroWidth+`link`+dom.ZeroWidth+`</a>`+dom.ZeroWidth+`</p>`)

	got, err := Value(root)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if strings.Contains(got, dom.ZeroWidth) {
		t.Errorf("serialized value leaks placeholder: %q", got)
	}
	if want := `<p><a href="#">link</a></p>`; got != want {
		t.Errorf("value = %q, want %q", got, want)
	}
}

func TestSerializeLeavesTreeUntouched(t *testing.T) {
	root := mustParse(t, "<p>"+dom.ZeroWidth+"x</p>")
	text := root.FirstChild.FirstChild

	if _, err := Value(root); err != nil {
		t.Fatalf("Value: %v", err)
	}
	if text.Data != dom.ZeroWidth+"x" {
		t.Errorf("live text mutated by serialization: %q", text.Data)
	}
}

func TestSerializeEmbedsCollapsedCursor(t *testing.T) {
	root := mustParse(t, "<p>hello</p>")
	text := root.FirstChild.FirstChild
	rng := cursor.At(text, 2)

	got, err := Serialize(root, SerializeOptions{Cursor: &rng})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if want := "<p>he<cursor></cursor>llo</p>"; got != want {
		t.Errorf("value = %q, want %q", got, want)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	root := mustParse(t, "<p>hello</p>")
	text := root.FirstChild.FirstChild
	rng := cursor.Span(
		cursor.Position{Node: text, Offset: 1},
		cursor.Position{Node: text, Offset: 4},
	)

	value, err := Serialize(root, SerializeOptions{Cursor: &rng})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored := mustParse(t, value)
	got, ok := ExtractCursor(restored)
	if !ok {
		t.Fatal("ExtractCursor found no sentinels")
	}
	if got.Start.Offset != 1 || got.End.Offset != 4 {
		t.Errorf("restored range = %v, want offsets 1..4", got)
	}
	if got.Start.Node != got.End.Node || got.Start.Node.Type != html.TextNode {
		t.Errorf("restored range should rebind onto the merged text node, got %v", got)
	}
	if findSentinel(restored, TagAnchor) != nil || findSentinel(restored, TagFocus) != nil {
		t.Error("sentinels must be removed from the tree")
	}
	if dom.TextContent(restored) != "hello" {
		t.Errorf("text content = %q after extraction", dom.TextContent(restored))
	}
	if dom.ChildCount(restored.FirstChild) != 1 {
		t.Errorf("split text nodes should be merged back, children = %d",
			dom.ChildCount(restored.FirstChild))
	}
}

func TestExtractCursorCollapsed(t *testing.T) {
	root := mustParse(t, "<p>ab<cursor></cursor>cd</p>")

	rng, ok := ExtractCursor(root)
	if !ok {
		t.Fatal("ExtractCursor found no sentinel")
	}
	if !rng.Collapsed() {
		t.Errorf("range should be collapsed, got %v", rng)
	}
	if rng.Start.Offset != 2 || rng.Start.Node.Data != "abcd" {
		t.Errorf("range = %v, want offset 2 in merged text", rng)
	}
}

func TestExtractCursorNone(t *testing.T) {
	root := mustParse(t, "<p>plain</p>")
	if _, ok := ExtractCursor(root); ok {
		t.Error("ExtractCursor should report no sentinel")
	}
}

func TestExtractCursorElementBoundary(t *testing.T) {
	root := mustParse(t, "<p><br><cursor></cursor><br></p>")
	p := root.FirstChild

	rng, ok := ExtractCursor(root)
	if !ok {
		t.Fatal("ExtractCursor found no sentinel")
	}
	if rng.Start.Node != p || rng.Start.Offset != 1 {
		t.Errorf("range = %v, want child offset 1 of the paragraph", rng)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	got, err := MarkdownToHTML("# Title\n\nbody with **bold**")
	if err != nil {
		t.Fatalf("MarkdownToHTML: %v", err)
	}
	if !strings.Contains(got, "<h1>Title</h1>") {
		t.Errorf("missing heading in %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("missing strong in %q", got)
	}
}

func TestLooksLikeMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"# Heading", true},
		{"- one\n- two", true},
		{"1. first", true},
		{"> quoted", true},
		{"```\ncode\n```", true},
		{"see [docs](https://example.com)", true},
		{"really **important**", true},
		{"just a plain sentence.", false},
		{"2 + 2 = 4", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeMarkdown(tt.in); got != tt.want {
			t.Errorf("LooksLikeMarkdown(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
