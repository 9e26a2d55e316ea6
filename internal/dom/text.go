package dom

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
)

// ZeroWidth is the zero-width placeholder character. It keeps otherwise-empty
// inline positions addressable by a cursor and never belongs to the semantic
// document value.
const ZeroWidth = "​"

// StripZeroWidth removes all zero-width placeholder characters from s.
func StripZeroWidth(s string) string {
	return strings.ReplaceAll(s, ZeroWidth, "")
}

// HasLeadingZeroWidth reports whether s starts with the placeholder.
func HasLeadingZeroWidth(s string) bool {
	return strings.HasPrefix(s, ZeroWidth)
}

// HasTrailingZeroWidth reports whether s ends with the placeholder.
func HasTrailingZeroWidth(s string) bool {
	return strings.HasSuffix(s, ZeroWidth)
}

// IsPlaceholderText reports whether s consists only of placeholders.
func IsPlaceholderText(s string) bool {
	return s != "" && StripZeroWidth(s) == ""
}

// NextGraphemeLen returns the byte length of the grapheme cluster starting
// at offset in s, or 0 at the end of the string.
func NextGraphemeLen(s string, offset int) int {
	if offset < 0 || offset >= len(s) {
		return 0
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[offset:], -1)
	return len(cluster)
}

// PrevGraphemeLen returns the byte length of the grapheme cluster ending at
// offset in s, or 0 at the start of the string.
func PrevGraphemeLen(s string, offset int) int {
	if offset <= 0 || offset > len(s) {
		return 0
	}
	rest := s[:offset]
	last := 0
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		last = len(cluster)
	}
	return last
}

// SplitText splits a text node at the given byte offset and returns the new
// trailing node, inserted as the next sibling. Splitting at 0 or at the text
// length returns nil without modifying the node.
func SplitText(n *html.Node, offset int) *html.Node {
	if n == nil || n.Type != html.TextNode {
		return nil
	}
	if offset <= 0 || offset >= len(n.Data) {
		return nil
	}
	tail := Text(n.Data[offset:])
	n.Data = n.Data[:offset]
	if n.Parent != nil {
		n.Parent.InsertBefore(tail, n.NextSibling)
	}
	return tail
}
