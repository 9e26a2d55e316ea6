package change

import (
	"sync"
	"time"
)

// DefaultDelay is the debounce window between the last mutation and the
// change report.
const DefaultDelay = 200 * time.Millisecond

// Notifier coalesces mutation notifications into debounced value reports.
// The value and gc hooks are supplied by the owner; gc runs before the
// value is recomputed so collected widgets never appear in the report.
type Notifier struct {
	delay time.Duration
	value func() (string, error)
	gc    func()

	timer Timer

	mu        sync.Mutex
	composing bool
	pending   bool
	last      string
	handlers  []func(string)
}

// NewNotifier creates a notifier with the given debounce delay. A
// non-positive delay falls back to DefaultDelay.
func NewNotifier(delay time.Duration, value func() (string, error), gc func()) *Notifier {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Notifier{delay: delay, value: value, gc: gc}
}

// OnChange registers a listener for value reports.
func (n *Notifier) OnChange(fn func(string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, fn)
}

// Prime sets the comparison baseline without emitting, used after a full
// document replacement.
func (n *Notifier) Prime(value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = value
}

// Change records a mutation. Mid-composition the notification is held back
// until composition ends; otherwise the debounce timer restarts.
func (n *Notifier) Change() {
	n.mu.Lock()
	if n.composing {
		n.pending = true
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()
	n.timer.Schedule(n.delay, n.fire)
}

// SetComposing toggles composition mode. Leaving composition with a held
// notification releases it into a fresh debounce window.
func (n *Notifier) SetComposing(composing bool) {
	n.mu.Lock()
	n.composing = composing
	release := !composing && n.pending
	n.pending = false
	n.mu.Unlock()
	if release {
		n.timer.Schedule(n.delay, n.fire)
	}
}

// Flush cancels any pending debounce and reports synchronously.
func (n *Notifier) Flush() {
	n.timer.Cancel()
	n.fire()
}

// Stop drops any pending notification.
func (n *Notifier) Stop() {
	n.timer.Cancel()
}

func (n *Notifier) fire() {
	if n.gc != nil {
		n.gc()
	}
	v, err := n.value()
	if err != nil {
		return
	}

	n.mu.Lock()
	if v == n.last {
		n.mu.Unlock()
		return
	}
	n.last = v
	handlers := make([]func(string), len(n.handlers))
	copy(handlers, n.handlers)
	n.mu.Unlock()

	for _, fn := range handlers {
		fn(v)
	}
}
