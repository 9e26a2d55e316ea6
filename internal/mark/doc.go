// Package mark manages inline formatting wrappers and the post-keystroke
// boundary repair around them.
//
// A mark's identity for merge and comparison purposes is structural: same
// tag, same attributes. Each mark tag carries a followStyle policy deciding
// whether text typed at the mark's boundary inherits the mark; the Repairer
// enforces that policy once per committed input event by relocating the
// just-typed characters outside any non-following marks.
package mark
