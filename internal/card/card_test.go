package card

import (
	"errors"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
)

func newTestRegistry() (*Registry, *dom.Schema) {
	s := dom.NewSchema(dom.DefaultTagSets())
	r := NewRegistry(s)
	r.Define(Definition{Name: "chart", Kind: KindBlock})
	r.Define(Definition{Name: "mention", Kind: KindInline, CursorZones: true})
	r.Define(Definition{
		Name:     "note",
		Kind:     KindBlock,
		Editable: true,
		Render: func(value string) *html.Node {
			return dom.Text(value)
		},
	})
	return r, s
}

func TestInsertBlockCard(t *testing.T) {
	r, s := newTestRegistry()
	root, err := r.Insert("chart", `{"type":"bar"}`)
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsBlockCard(root) {
		t.Error("inserted root should be a block card")
	}
	if dom.Attr(root, dom.AttrCardValue) != `{"type":"bar"}` {
		t.Error("value attribute missing")
	}
	if Center(root) == nil {
		t.Error("card should have a center element")
	}
	if r.Count() != 1 {
		t.Errorf("instance count = %d, want 1", r.Count())
	}
}

func TestInsertUnknownCard(t *testing.T) {
	r, _ := newTestRegistry()
	if _, err := r.Insert("nope", ""); !errors.Is(err, ErrUnknownCard) {
		t.Errorf("err = %v, want ErrUnknownCard", err)
	}
}

func TestInlineCardZones(t *testing.T) {
	r, _ := newTestRegistry()
	root, err := r.Insert("mention", "@dave")
	if err != nil {
		t.Fatal(err)
	}
	left := Zone(root, dom.CardZoneLeft)
	right := Zone(root, dom.CardZoneRight)
	if left == nil || right == nil {
		t.Fatal("inline card with CursorZones should have both zones")
	}
	if left.FirstChild == nil || left.FirstChild.Data != dom.ZeroWidth {
		t.Error("zones should start as placeholder")
	}

	left.FirstChild.Data = dom.ZeroWidth + "typed"
	ResetZone(left)
	if left.FirstChild.Data != dom.ZeroWidth || left.FirstChild.NextSibling != nil {
		t.Error("ResetZone should restore the placeholder state")
	}
}

func TestFindWalksToCardRoot(t *testing.T) {
	r, _ := newTestRegistry()
	doc := dom.Element("div")
	root, _ := r.Insert("chart", "")
	doc.AppendChild(root)

	inner := Center(root)
	inst := r.Find(inner, true)
	if inst == nil || inst.Root != root {
		t.Fatalf("Find from interior = %v", inst)
	}
	if r.Find(doc, true) != nil {
		t.Error("Find outside any card should be nil")
	}
}

func TestRenderAdoptsLoadedMarkup(t *testing.T) {
	r, _ := newTestRegistry()
	doc := dom.Element("div")
	loaded := dom.Element("div", dom.AttrCard, "chart", dom.AttrCardType, "block")
	doc.AppendChild(loaded)
	stranger := dom.Element("div", dom.AttrCard, "unknown", dom.AttrCardType, "block")
	doc.AppendChild(stranger)

	if got := r.Render(doc); got != 1 {
		t.Errorf("Render adopted %d, want 1", got)
	}
	if inst := r.Find(loaded, true); inst == nil {
		t.Error("adopted card should be findable")
	}
	if inst := r.Find(stranger, true); inst != nil {
		t.Error("unknown card markup must not be adopted")
	}
}

func TestGC(t *testing.T) {
	r, _ := newTestRegistry()
	doc := dom.Element("div")
	kept, _ := r.Insert("chart", "")
	doc.AppendChild(kept)
	dropped, _ := r.Insert("chart", "")
	_ = dropped // never attached to doc

	if got := r.GC(doc); got != 1 {
		t.Errorf("GC collected %d, want 1", got)
	}
	if r.Count() != 1 {
		t.Errorf("count after GC = %d, want 1", r.Count())
	}
}

func TestFocus(t *testing.T) {
	r, _ := newTestRegistry()
	doc := dom.Element("div")

	opaque, _ := r.Insert("chart", "")
	doc.AppendChild(opaque)
	inst := r.Find(opaque, true)
	rng := r.Focus(inst)
	if rng.Start.Node != doc || rng.Start.Offset != 1 {
		t.Errorf("focus on opaque card = %v, want after root", rng)
	}

	editable, _ := r.Insert("note", "hello")
	doc.AppendChild(editable)
	inst = r.Find(editable, true)
	rng = r.Focus(inst)
	if rng.Start.Node != Center(editable) {
		t.Errorf("focus on editable card = %v, want inside center", rng)
	}
}

func TestGetSingleSelectedCard(t *testing.T) {
	r, _ := newTestRegistry()
	doc := dom.Element("div")
	p := dom.Element("p")
	doc.AppendChild(p)
	root, _ := r.Insert("chart", "")
	doc.AppendChild(root)

	rng := cursor.Span(
		cursor.Position{Node: doc, Offset: 1},
		cursor.Position{Node: doc, Offset: 2},
	)
	if inst := r.GetSingleSelectedCard(rng); inst == nil || inst.Root != root {
		t.Errorf("single selected card = %v", inst)
	}

	wide := cursor.Span(
		cursor.Position{Node: doc, Offset: 0},
		cursor.Position{Node: doc, Offset: 2},
	)
	if r.GetSingleSelectedCard(wide) != nil {
		t.Error("two-node selection should not report a single card")
	}
}
