// Package change debounces structural-change detection and reports value
// changes.
//
// Every user-visible mutation calls Change. Calls reset a single pending
// timer; when it fires, embedded-widget garbage collection runs, the value
// is recomputed, and listeners are notified only when the serialized value
// differs from the last reported one. String equality decides, not tree
// equality. Composition input suspends the debounce until it ends.
package change
