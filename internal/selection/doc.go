// Package selection repositions raw cursor ranges onto semantically valid
// positions and computes the selection context other components query.
//
// The Normalizer applies the caret fixes in a fixed order (trailing line
// break, zero-width placeholder, inline interior) and then recomputes the
// active marks, enclosing blocks and enclosing inlines for the adjusted
// range. The result is returned as an explicit Context value rather than
// cached instance state, so callers thread it to wherever it is needed.
//
// SafeRange is the defensive variant used before destructive mutations: it
// clamps ranges that escape the editable root, resolves card boundaries on
// both ends, and nudges collapsed inline-edge positions outside the inline.
package selection
