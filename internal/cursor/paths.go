package cursor

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/dom"
)

// PathPosition is a structurally-serialized Position.
type PathPosition struct {
	Path   dom.Path
	Offset int
}

// RangePaths is a structurally-serialized Range. It survives a full tree
// replacement, resolving against whatever tree currently backs the editor.
type RangePaths struct {
	Start PathPosition
	End   PathPosition
}

// ToPaths serializes the range relative to root. Both ends must lie under
// root; ok is false otherwise.
func (r Range) ToPaths(root *html.Node) (RangePaths, bool) {
	sp := dom.PathOf(root, r.Start.Node)
	ep := dom.PathOf(root, r.End.Node)
	if r.Start.Node != root && sp == nil {
		return RangePaths{}, false
	}
	if r.End.Node != root && ep == nil {
		return RangePaths{}, false
	}
	return RangePaths{
		Start: PathPosition{Path: sp, Offset: r.Start.Offset},
		End:   PathPosition{Path: ep, Offset: r.End.Offset},
	}, true
}

// FromPaths resolves serialized paths against root. Offsets are clamped, so
// a range captured before a structural change still resolves to the nearest
// valid position as long as the paths themselves are resolvable.
func FromPaths(root *html.Node, rp RangePaths) (Range, bool) {
	sn := rp.Start.Path.Resolve(root)
	en := rp.End.Path.Resolve(root)
	if sn == nil || en == nil {
		return Range{}, false
	}
	return Range{
		Start: Position{Node: sn, Offset: rp.Start.Offset}.Clamp(),
		End:   Position{Node: en, Offset: rp.End.Offset}.Clamp(),
	}, true
}
