// Package card manages embedded widgets: opaque block or inline nodes owned
// by a registry and treated atomically by the editing core.
//
// A card is described by a Definition (name, block/inline kind, capability
// set) and lives in the tree as a root element carrying data-card
// attributes. Inline cards with cursor zones are flanked by invisible
// editable slivers that capture adjacent typing; the repair pass moves such
// text back outside the card.
//
// Dispatch is by capability lookup on the Definition, not subclassing.
package card
