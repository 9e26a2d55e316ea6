package selection

import (
	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
)

// Context is the queryable state of one resolved selection: the adjusted
// range plus the node lists recomputed for it. It is a value snapshot; a
// later mutation invalidates it.
type Context struct {
	// Range is the normalized selection.
	Range cursor.Range

	// Marks are the active formatting wrappers at the selection.
	Marks []*html.Node

	// Blocks are the enclosing block elements, innermost first.
	Blocks []*html.Node

	// Inlines are the enclosing non-mark inline elements.
	Inlines []*html.Node
}
