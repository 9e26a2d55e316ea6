package selection

import (
	"sync"

	"github.com/dshills/richedit/internal/cursor"
)

// Host mirrors the platform's live selection. The editing core pushes
// resolved ranges to it and reads back the selection the host currently
// reports.
type Host interface {
	// Selection returns the host's current selection, if any.
	Selection() (cursor.Range, bool)

	// SetSelection replaces the host's selection.
	SetSelection(rng cursor.Range)
}

// MemoryHost is an in-process Host used by tests and the demo. It can also
// simulate host-initiated selection changes via Notify.
type MemoryHost struct {
	mu        sync.Mutex
	rng       cursor.Range
	has       bool
	listeners []func(cursor.Range)
}

// NewMemoryHost creates an empty in-memory host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{}
}

// Selection returns the current selection.
func (h *MemoryHost) Selection() (cursor.Range, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng, h.has
}

// SetSelection replaces the selection without firing change listeners,
// mirroring a programmatic (non-user) selection update.
func (h *MemoryHost) SetSelection(rng cursor.Range) {
	h.mu.Lock()
	h.rng = rng
	h.has = true
	h.mu.Unlock()
}

// OnSelectionChange registers a listener for host-initiated changes.
func (h *MemoryHost) OnSelectionChange(fn func(cursor.Range)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Notify simulates the host reporting a user-driven selection change.
func (h *MemoryHost) Notify(rng cursor.Range) {
	h.mu.Lock()
	h.rng = rng
	h.has = true
	listeners := make([]func(cursor.Range), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(rng)
	}
}
