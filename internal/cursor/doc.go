// Package cursor provides the range model: a selection represented as a
// start and end position in the content tree.
//
// A Position addresses either a byte offset in a text node or a child index
// in an element. Range is a value type; narrowing helpers (ShrunkToText,
// ShrunkToElement) are pure and return a new Range, leaving the caller to
// decide whether to adopt it as the live cursor.
//
// Ranges can be serialized to structural paths (see RangePaths) so that a
// selection survives a full tree replacement where node identity is lost.
package cursor
