package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseTree parses an HTML fragment into a detached div root for tests.
func parseTree(t *testing.T, fragment string) *html.Node {
	t.Helper()
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	root := Element("div")
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

func TestChildIndexAndAt(t *testing.T) {
	root := parseTree(t, "<p>a</p><p>b</p><p>c</p>")
	second := ChildAt(root, 1)
	if second == nil || TextContent(second) != "b" {
		t.Fatalf("ChildAt(1) = %v", second)
	}
	if got := ChildIndex(second); got != 1 {
		t.Errorf("ChildIndex = %d, want 1", got)
	}
	if ChildAt(root, 5) != nil {
		t.Error("out-of-range ChildAt should be nil")
	}
	if ChildIndex(Element("p")) != -1 {
		t.Error("detached node index should be -1")
	}
}

func TestNodeLength(t *testing.T) {
	root := parseTree(t, "<p>abc</p>")
	p := root.FirstChild
	if got := NodeLength(p); got != 1 {
		t.Errorf("element length = %d, want 1", got)
	}
	if got := NodeLength(p.FirstChild); got != 3 {
		t.Errorf("text length = %d, want 3", got)
	}
}

func TestDetachAndInsert(t *testing.T) {
	root := parseTree(t, "<p>a</p><p>b</p>")
	first := root.FirstChild
	second := first.NextSibling

	Detach(second)
	if ChildCount(root) != 1 {
		t.Fatalf("child count after detach = %d, want 1", ChildCount(root))
	}
	InsertAfter(first, second)
	if root.LastChild != second {
		t.Error("InsertAfter should reattach as last child")
	}

	n := Element("p")
	InsertAt(root, n, 0)
	if root.FirstChild != n {
		t.Error("InsertAt(0) should prepend")
	}
}

func TestUnwrap(t *testing.T) {
	root := parseTree(t, "<blockquote><p>a</p><p>b</p></blockquote>")
	Unwrap(root.FirstChild)
	if ChildCount(root) != 2 {
		t.Fatalf("child count = %d, want 2", ChildCount(root))
	}
	if root.FirstChild.Data != "p" {
		t.Errorf("first child = %q, want p", root.FirstChild.Data)
	}
}

func TestCloneDeep(t *testing.T) {
	root := parseTree(t, `<p class="x"><strong>a</strong></p>`)
	clone := CloneDeep(root.FirstChild)
	if clone == root.FirstChild {
		t.Fatal("clone must be a new node")
	}
	if Attr(clone, "class") != "x" {
		t.Error("clone should carry attributes")
	}
	if TextContent(clone) != "a" {
		t.Error("clone should carry subtree")
	}
	clone.FirstChild.FirstChild.Data = "changed"
	if TextContent(root.FirstChild) != "a" {
		t.Error("mutating the clone must not touch the original")
	}
}

func TestCompareDocumentOrder(t *testing.T) {
	root := parseTree(t, "<p>a</p><p><strong>b</strong></p>")
	first := root.FirstChild
	second := first.NextSibling
	strong := second.FirstChild

	if Compare(first, second) != -1 {
		t.Error("first paragraph should precede second")
	}
	if Compare(strong, first) != 1 {
		t.Error("nested node should follow earlier sibling")
	}
	if Compare(second, strong) != -1 {
		t.Error("ancestor should precede descendant")
	}
	if Compare(strong, strong) != 0 {
		t.Error("node should equal itself")
	}
}

func TestClosestBlock(t *testing.T) {
	s := NewSchema(DefaultTagSets())
	root := parseTree(t, "<p><strong>a</strong></p>")
	text := root.FirstChild.FirstChild.FirstChild
	if got := s.ClosestBlock(text); got != root.FirstChild {
		t.Errorf("ClosestBlock = %v", got)
	}
}

func TestMeaningfulSiblings(t *testing.T) {
	root := parseTree(t, "<p>a</p>  <p>b</p>")
	first := root.FirstChild
	if got := NextMeaningfulSibling(first); got == nil || got.Data != "p" {
		t.Errorf("NextMeaningfulSibling should skip whitespace text, got %v", got)
	}
	last := root.LastChild
	if got := PrevMeaningfulSibling(last); got != first {
		t.Errorf("PrevMeaningfulSibling = %v, want first paragraph", got)
	}
}
