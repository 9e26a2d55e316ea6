// Package dom provides the content tree the editing core operates on.
//
// The tree is golang.org/x/net/html's Node type; dom adds the pieces an
// editor needs on top of a raw parse tree:
//
//   - Schema: classifies nodes as block, inline, mark, void or card from
//     configured tag sets and node attributes
//   - structural helpers: child indexing, detach/insert, deep clone,
//     document-order comparison, leaf walking
//   - zero-width placeholder handling: the invisible character that keeps
//     otherwise-empty inline positions addressable by a cursor
//   - Path: child-index chains that survive a full tree replacement
//
// Offsets follow one convention everywhere: a text node offset is a byte
// offset into Node.Data, an element offset is a child index. Grapheme-aware
// stepping (via rivo/uniseg) is provided so offset nudges never split a
// cluster.
package dom
