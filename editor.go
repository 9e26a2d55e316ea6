package richedit

import (
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/richedit/internal/card"
	"github.com/dshills/richedit/internal/change"
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/history"
	"github.com/dshills/richedit/internal/list"
	"github.com/dshills/richedit/internal/logging"
	"github.com/dshills/richedit/internal/mark"
	"github.com/dshills/richedit/internal/parser"
	"github.com/dshills/richedit/internal/selection"
)

// Editor owns one editable root and the collaborators working over it. The
// host delivers events serially; the internal mutex only shields the tree
// from the debounce timer goroutine.
type Editor struct {
	mu sync.Mutex

	cfg    *config.Config
	log    *logging.Logger
	root   *html.Node
	schema *dom.Schema

	marks      *mark.Registry
	cards      *card.Registry
	lists      *list.Helper
	repairer   *mark.Repairer
	normalizer *selection.Normalizer
	host       selection.Host
	notifier   *change.Notifier
	history    history.RangeCache

	sel       cursor.Range
	hasSel    bool
	ctx       selection.Context
	focused   bool
	destroyed bool

	pendingCards []card.Definition
}

// Option configures an Editor.
type Option func(*Editor)

// WithConfig supplies the editor configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Editor) { e.cfg = cfg }
}

// WithLogger supplies the logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Editor) { e.log = log }
}

// WithHost supplies the host selection adapter.
func WithHost(h selection.Host) Option {
	return func(e *Editor) { e.host = h }
}

// WithCards registers card definitions before the initial render.
func WithCards(defs ...card.Definition) Option {
	return func(e *Editor) {
		e.pendingCards = append(e.pendingCards, defs...)
	}
}

// New creates an editor loaded with the given serialized value. Cursor
// sentinels in the value become the initial selection.
func New(value string, opts ...Option) (*Editor, error) {
	e := &Editor{
		cfg:  config.Default(),
		log:  logging.Default().WithComponent("editor"),
		root: dom.Element("div"),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.schema = dom.NewSchema(e.cfg.TagSets())
	e.marks = mark.NewRegistry(e.schema)
	e.cfg.ConfigureMarks(e.marks)
	e.cards = card.NewRegistry(e.schema)
	for _, def := range e.pendingCards {
		e.cards.Define(def)
	}
	e.pendingCards = nil
	e.lists = list.NewHelper(e.schema)
	e.repairer = mark.NewRepairer(e.schema, e.marks)
	e.normalizer = selection.New(e.root, e.schema, e.marks, e.cards)
	if e.host == nil {
		e.host = selection.NewMemoryHost()
	}

	e.notifier = change.NewNotifier(e.cfg.ChangeDelay(), e.currentValue, e.collectCards)

	if err := e.loadValue(value); err != nil {
		return nil, err
	}
	return e, nil
}

// Root returns the editable root element.
func (e *Editor) Root() *html.Node { return e.root }

// Cards returns the card registry.
func (e *Editor) Cards() *card.Registry { return e.cards }

// Marks returns the mark registry.
func (e *Editor) Marks() *mark.Registry { return e.marks }

// Schema returns the structural classifier.
func (e *Editor) Schema() *dom.Schema { return e.schema }

// CollapseAtEnd returns a collapsed range at the end of n's children.
func CollapseAtEnd(n *html.Node) cursor.Range {
	return cursor.At(n, dom.NodeLength(n))
}

// ValueOptions control GetValue.
type ValueOptions struct {
	// IgnoreCursor omits the cursor sentinel elements from the value.
	IgnoreCursor bool
}

// GetValue serializes the document. Zero-width placeholders are always
// stripped; with IgnoreCursor unset and a live selection, cursor sentinels
// are embedded so the selection survives a round trip through SetValue.
func (e *Editor) GetValue(opts ValueOptions) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return "", ErrDestroyed
	}
	so := parser.SerializeOptions{}
	if !opts.IgnoreCursor && e.hasSel {
		rng := e.sel
		so.Cursor = &rng
	}
	return parser.Serialize(e.root, so)
}

// SetValue replaces the whole document. History is cleared, cards in the
// new markup are adopted, and cursor sentinels become the new selection.
func (e *Editor) SetValue(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	return e.loadValue(value)
}

func (e *Editor) loadValue(value string) error {
	if err := parser.ParseInto(e.root, value); err != nil {
		return err
	}
	e.history.Clear()
	e.cards.GC(e.root)
	e.cards.Render(e.root)

	rng, ok := parser.ExtractCursor(e.root)
	if !ok {
		rng = CollapseAtEnd(e.root)
	}
	e.applySelection(rng)

	v, err := parser.Value(e.root)
	if err != nil {
		return err
	}
	e.notifier.Prime(v)
	return nil
}

// Select normalizes a candidate range, makes it the live selection, and
// returns the recomputed selection context.
func (e *Editor) Select(rng cursor.Range) selection.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applySelection(rng)
}

func (e *Editor) applySelection(rng cursor.Range) selection.Context {
	ctx := e.normalizer.Normalize(rng)
	e.sel = ctx.Range
	e.hasSel = true
	e.ctx = ctx
	e.host.SetSelection(ctx.Range)
	return ctx
}

// HandleSelectionChange is the entry point for host-reported selection
// changes; the candidate range goes through normalization like any Select.
func (e *Editor) HandleSelectionChange(rng cursor.Range) selection.Context {
	return e.Select(rng)
}

// Selection returns the current resolved selection.
func (e *Editor) Selection() (cursor.Range, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel, e.hasSel
}

// Context returns the context cached by the last Select.
func (e *Editor) Context() selection.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// Focus gives the editor focus, selecting the document end if nothing was
// selected yet.
func (e *Editor) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = true
	if !e.hasSel {
		e.applySelection(CollapseAtEnd(e.root))
	}
}

// Blur removes focus. The selection is kept for the next Focus.
func (e *Editor) Blur() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = false
}

// Focused reports whether the editor has focus.
func (e *Editor) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

// IsEmpty reports whether the document holds no semantic content.
func (e *Editor) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.schema.IsEmpty(e.root)
}

// GetSafeRange normalizes a candidate range for destructive use.
func (e *Editor) GetSafeRange(rng cursor.Range) cursor.Range {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.normalizer.SafeRange(rng)
}

// CacheRangeBeforeCommand captures the current selection as structural
// paths, for command-undo support.
func (e *Editor) CacheRangeBeforeCommand() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasSel {
		return false
	}
	return e.history.CacheBeforeCommand(e.root, e.sel)
}

// GetRangePathBeforeCommand returns the paths captured before the last
// command.
func (e *Editor) GetRangePathBeforeCommand() (cursor.RangePaths, bool) {
	return e.history.RangeBeforeCommand()
}

// Change restarts the change pipeline, for hosts that mutate the tree
// directly rather than through the editor's mutators.
func (e *Editor) Change() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.changed()
}

// OnChange registers a listener for debounced value reports.
func (e *Editor) OnChange(fn func(string)) {
	e.notifier.OnChange(fn)
}

// SetComposing toggles IME composition. Change notification is suppressed
// while composing.
func (e *Editor) SetComposing(composing bool) {
	e.notifier.SetComposing(composing)
}

// Destroy stops the notifier and renders the editor inert.
func (e *Editor) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.notifier.Stop()
	e.history.Clear()
}

// changed runs the change pipeline after a user-visible mutation: a card
// containing the selection may intercept it, otherwise the debounce timer
// restarts. Callers hold e.mu.
func (e *Editor) changed() {
	if e.hasSel {
		if inst := e.cards.Find(e.sel.Start.Node, true); inst != nil && inst.Def.OnChange != nil {
			if inst.Def.OnChange(inst) {
				return
			}
		}
	}
	e.notifier.Change()
}

// currentValue is the notifier's value hook, called from the timer
// goroutine.
func (e *Editor) currentValue() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return parser.Value(e.root)
}

// collectCards is the notifier's gc hook.
func (e *Editor) collectCards() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := e.cards.GC(e.root); n > 0 {
		e.log.Debug("collected %d card instance(s)", n)
	}
}
