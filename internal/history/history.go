// Package history caches pre-command selection paths for undo support.
//
// A command about to mutate the tree captures the current range as index
// paths; because paths are structural they survive the tree rebuild that a
// full value replacement performs. The cache is cleared on every full
// document replacement.
package history

import (
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/cursor"
)

// RangeCache holds the selection captured before the last command.
type RangeCache struct {
	mu     sync.Mutex
	cached cursor.RangePaths
	valid  bool
}

// CacheBeforeCommand captures rng relative to root. A range outside root
// leaves the cache untouched.
func (c *RangeCache) CacheBeforeCommand(root *html.Node, rng cursor.Range) bool {
	rp, ok := rng.ToPaths(root)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = rp
	c.valid = true
	return true
}

// RangeBeforeCommand returns the captured paths. ok is false when nothing
// was captured since the last Clear.
func (c *RangeCache) RangeBeforeCommand() (cursor.RangePaths, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached, c.valid
}

// Restore resolves the captured paths against the current tree.
func (c *RangeCache) Restore(root *html.Node) (cursor.Range, bool) {
	c.mu.Lock()
	rp, valid := c.cached, c.valid
	c.mu.Unlock()
	if !valid {
		return cursor.Range{}, false
	}
	return cursor.FromPaths(root, rp)
}

// Clear drops the captured range. Called on full document replacement.
func (c *RangeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = cursor.RangePaths{}
	c.valid = false
}
