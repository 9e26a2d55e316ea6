package dom

import "testing"

func TestPathRoundTrip(t *testing.T) {
	root := parseTree(t, "<p>a</p><p><strong>b</strong></p>")
	strong := root.LastChild.FirstChild

	p := PathOf(root, strong)
	if !p.Equal(Path{1, 0}) {
		t.Fatalf("PathOf = %v, want /1/0", p)
	}
	if got := p.Resolve(root); got != strong {
		t.Errorf("Resolve returned %v", got)
	}
}

func TestPathSurvivesTreeReplacement(t *testing.T) {
	root := parseTree(t, "<p><strong>b</strong></p>")
	p := PathOf(root, root.FirstChild.FirstChild)

	// An identically-shaped replacement tree resolves the same path even
	// though every node is new.
	replacement := parseTree(t, "<p><strong>c</strong></p>")
	got := p.Resolve(replacement)
	if got == nil || got.Data != "strong" {
		t.Errorf("Resolve on replacement tree = %v", got)
	}
}

func TestPathOutOfTree(t *testing.T) {
	root := parseTree(t, "<p>a</p>")
	other := parseTree(t, "<p>b</p>")
	if PathOf(root, other.FirstChild) != nil {
		t.Error("PathOf should be nil for a foreign node")
	}
	if (Path{4, 2}).Resolve(root) != nil {
		t.Error("Resolve should be nil when the path runs off the tree")
	}
	if got := (Path{0, 0}).String(); got != "/0/0" {
		t.Errorf("String = %q", got)
	}
}
