package mark

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

func parseTree(t *testing.T, fragment string) *html.Node {
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

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	return b.String()
}

func newRegistry() (*Registry, *dom.Schema) {
	s := dom.NewSchema(dom.DefaultTagSets())
	r := NewRegistry(s)
	r.Register("strong", Plugin{FollowStyle: false})
	r.Register("em", Plugin{FollowStyle: true})
	r.Register("code", Plugin{FollowStyle: false})
	return r, s
}

func TestCompare(t *testing.T) {
	r, _ := newRegistry()
	root := parseTree(t,
		`<strong>a</strong><strong>b</strong>`+
			`<span style="color:red">c</span><span style="color:red">d</span>`+
			`<span style="color:blue">e</span>`)

	n := func(i int) *html.Node { return dom.ChildAt(root, i) }
	if !r.Compare(n(0), n(1)) {
		t.Error("same-tag marks should compare equal")
	}
	if !r.Compare(n(2), n(3)) {
		t.Error("same tag+attrs should compare equal")
	}
	if r.Compare(n(3), n(4)) {
		t.Error("different attr values must not compare equal")
	}
	if r.Compare(n(0), n(2)) {
		t.Error("different tags must not compare equal")
	}
}

func TestMergeAdjacent(t *testing.T) {
	r, _ := newRegistry()
	root := parseTree(t, "<p><strong>a</strong><strong>b</strong><em>c</em></p>")
	if got := r.MergeAdjacent(root); got != 1 {
		t.Fatalf("merged %d, want 1", got)
	}
	want := "<p><strong>ab</strong><em>c</em></p>"
	if got := render(t, root); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestMergeAdjacentNested(t *testing.T) {
	r, _ := newRegistry()
	root := parseTree(t, "<p><em><strong>a</strong><strong>b</strong></em></p>")
	r.MergeAdjacent(root)
	want := "<p><em><strong>ab</strong></em></p>"
	if got := render(t, root); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestUnwrap(t *testing.T) {
	r, _ := newRegistry()
	root := parseTree(t, "<p><strong>a</strong></p>")
	strong := root.FirstChild.FirstChild
	r.Unwrap([]*html.Node{strong})
	if got := render(t, root); got != "<p>a</p>" {
		t.Errorf("tree = %s", got)
	}
}

func TestRepairTypedMovesOutsideNonFollowMark(t *testing.T) {
	r, s := newRegistry()
	rp := NewRepairer(s, r)
	root := parseTree(t, "<p><strong>abcd</strong></p>")
	text := root.FirstChild.FirstChild.FirstChild

	// Cursor after "d", which was just typed.
	got := rp.RepairTyped(cursor.At(text, 4), "d")

	want := "<p><strong>abc</strong>d</p>"
	if tree := render(t, root); tree != want {
		t.Errorf("tree = %s, want %s", tree, want)
	}
	if got.Start.Node.Data != "d" || got.Start.Offset != 1 {
		t.Errorf("cursor = %v, want end of typed text", got)
	}
}

func TestRepairTypedKeepsInsideWithEqualSibling(t *testing.T) {
	r, s := newRegistry()
	rp := NewRepairer(s, r)
	root := parseTree(t, "<p><strong>abcd</strong><strong>x</strong></p>")
	text := root.FirstChild.FirstChild.FirstChild

	rp.RepairTyped(cursor.At(text, 4), "d")

	want := "<p><strong>abcd</strong><strong>x</strong></p>"
	if tree := render(t, root); tree != want {
		t.Errorf("tree = %s, want %s", tree, want)
	}
}

func TestRepairTypedAtMarkStart(t *testing.T) {
	r, s := newRegistry()
	rp := NewRepairer(s, r)
	root := parseTree(t, "<p><strong>dabc</strong></p>")
	text := root.FirstChild.FirstChild.FirstChild

	got := rp.RepairTyped(cursor.At(text, 1), "d")

	want := "<p>d<strong>abc</strong></p>"
	if tree := render(t, root); tree != want {
		t.Errorf("tree = %s, want %s", tree, want)
	}
	if got.Start.Offset != 1 {
		t.Errorf("cursor offset = %d, want 1", got.Start.Offset)
	}
}

func TestRepairTypedKeepsFollowMarkWrapper(t *testing.T) {
	r, s := newRegistry()
	rp := NewRepairer(s, r)
	// em follows style, strong does not; strong is the outer boundary.
	root := parseTree(t, "<p><strong><em>abcd</em></strong></p>")
	text := root.FirstChild.FirstChild.FirstChild.FirstChild

	rp.RepairTyped(cursor.At(text, 4), "d")

	want := "<p><strong><em>abc</em></strong><em>d</em></p>"
	if tree := render(t, root); tree != want {
		t.Errorf("tree = %s, want %s", tree, want)
	}
}

func TestRepairTypedIntoEmptyMarkLeavesPlaceholder(t *testing.T) {
	r, s := newRegistry()
	rp := NewRepairer(s, r)
	root := parseTree(t, "<p><strong>d</strong></p>")
	text := root.FirstChild.FirstChild.FirstChild

	rp.RepairTyped(cursor.At(text, 1), "d")

	strong := root.FirstChild.FirstChild
	if strong.Data != "strong" || !dom.IsPlaceholderText(strong.FirstChild.Data) {
		t.Errorf("emptied mark should keep a placeholder, tree = %s", render(t, root))
	}
	if strong.NextSibling == nil || strong.NextSibling.Data != "d" {
		t.Errorf("typed text should sit after the mark, tree = %s", render(t, root))
	}
}

func TestRepairStripsLeadingPlaceholderAfterMark(t *testing.T) {
	r, s := newRegistry()
	rp := NewRepairer(s, r)
	root := parseTree(t, "<p><em>a</em>"+dom.ZeroWidth+"d</p>")
	text := root.FirstChild.LastChild

	got := rp.RepairTyped(cursor.At(text, len(text.Data)), "d")

	if text.Data != "d" {
		t.Errorf("text = %q, want placeholder stripped", text.Data)
	}
	if got.Start.Offset != 1 {
		t.Errorf("cursor offset = %d, want 1", got.Start.Offset)
	}
}

func TestRepairNoOpOnPlainText(t *testing.T) {
	r, s := newRegistry()
	rp := NewRepairer(s, r)
	root := parseTree(t, "<p>abcd</p>")
	text := root.FirstChild.FirstChild

	rng := cursor.At(text, 4)
	got := rp.RepairTyped(rng, "d")
	if !got.Equal(rng) || text.Data != "abcd" {
		t.Error("repair outside marks should be a no-op")
	}
}
