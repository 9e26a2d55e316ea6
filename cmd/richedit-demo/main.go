// Package main is a terminal playground for the richedit core: it loads a
// document, feeds keystrokes through the editor's input pipeline, and shows
// the serialized value updating under the debounced change notifier.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/net/html"

	"github.com/dshills/richedit"
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/cursor"
	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const sampleValue = `<p><strong>richedit</strong> structural editing demo</p>` +
	`<p>Type to insert text, Backspace to delete, Enter for a new paragraph.</p>` +
	`<ul><li>Ctrl+S writes the value back to the file</li>` +
	`<li>Ctrl+Q quits</li></ul>`

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
			return 1
		}
	}
	logging.Default().SetLevel(logging.ParseLevel(opts.logLevel))

	value := sampleValue
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", opts.file, err)
			return 1
		}
		if err == nil {
			value = string(data)
		}
	}

	ed, err := richedit.New(value, richedit.WithConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize editor: %v\n", err)
		return 1
	}
	defer ed.Destroy()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	screen.EnablePaste()
	defer screen.Fini()

	if err := loop(screen, ed, opts.file); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	configPath string
	logLevel   string
	file       string
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "richedit-demo - structural editing playground\n\n")
		fmt.Fprintf(os.Stderr, "Usage: richedit-demo [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("richedit-demo %s (%s)\n", version, commit)
		os.Exit(0)
	}
	if args := flag.Args(); len(args) > 0 {
		opts.file = args[0]
	}
	return opts
}

// loop runs the event loop until quit. Every tcell event is handled on this
// goroutine, so editor calls never race with each other.
func loop(screen tcell.Screen, ed *richedit.Editor, savePath string) error {
	var changes atomic.Int64
	ed.OnChange(func(string) {
		changes.Add(1)
		// Wake the event loop so the status line refreshes.
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	ed.Focus()

	status := ""
	for {
		draw(screen, ed, status, changes.Load())

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()

		case *tcell.EventInterrupt:
			// Redraw only.

		case *tcell.EventPaste:
			// Bracketed paste delivers runes between the markers; nothing to
			// do here beyond letting the rune events arrive.

		case *tcell.EventKey:
			var err error
			status, err = handleKey(ed, ev, savePath)
			if err == errQuit {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

var errQuit = fmt.Errorf("quit")

func handleKey(ed *richedit.Editor, ev *tcell.EventKey, savePath string) (string, error) {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return "", errQuit

	case tcell.KeyCtrlS:
		if savePath == "" {
			return "no file to save to", nil
		}
		v, err := ed.GetValue(richedit.ValueOptions{IgnoreCursor: true})
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(savePath, []byte(v), 0o644); err != nil {
			return "", err
		}
		return "saved " + savePath, nil

	case tcell.KeyEnter:
		if err := ed.InsertFragment("<p><br/></p>", nil); err != nil {
			return "", err
		}
		return "", nil

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "", backspace(ed)

	case tcell.KeyRune:
		return "", ed.InsertText(string(ev.Rune()))
	}
	return "", nil
}

// backspace removes the grapheme before the cursor, or merges the enclosing
// block with its predecessor when the cursor sits at the block start.
func backspace(ed *richedit.Editor) error {
	sel, ok := ed.Selection()
	if !ok || !sel.Collapsed() {
		_, err := ed.DeleteSelection(true)
		return err
	}
	pos := sel.Start
	if pos.Node.Type == html.TextNode && pos.Offset > 0 {
		step := dom.PrevGraphemeLen(pos.Node.Data, pos.Offset)
		rng := cursor.Span(
			cursor.Position{Node: pos.Node, Offset: pos.Offset - step},
			pos,
		)
		_, err := ed.DeleteContent(rng, true)
		return err
	}
	block := ed.Schema().ClosestBlock(pos.Node)
	if block == nil {
		return nil
	}
	if err := ed.MergeAfterDeletePrevNode(block); err != nil {
		return err
	}
	return nil
}

// draw paints the serialized value wrapped to the screen width, with a
// status line on the bottom row.
func draw(screen tcell.Screen, ed *richedit.Editor, status string, changes int64) {
	screen.Clear()
	w, h := screen.Size()
	if w == 0 || h < 2 {
		screen.Show()
		return
	}

	v, err := ed.GetValue(richedit.ValueOptions{})
	if err != nil {
		v = "error: " + err.Error()
	}

	y := 0
	for _, line := range wrap(v, w) {
		if y >= h-1 {
			break
		}
		drawText(screen, 0, y, tcell.StyleDefault, line)
		y++
	}

	bar := fmt.Sprintf(" %d change(s) reported | Ctrl+S save | Ctrl+Q quit", changes)
	if status != "" {
		bar += " | " + status
	}
	if len(bar) > w {
		bar = bar[:w]
	}
	drawText(screen, 0, h-1, tcell.StyleDefault.Reverse(true), bar+strings.Repeat(" ", max(0, w-len(bar))))
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// wrap hard-wraps s at width runes, breaking markup-tag boundaries into
// separate lines so the structure stays readable.
func wrap(s string, width int) []string {
	s = strings.ReplaceAll(s, "</p>", "</p>\n")
	s = strings.ReplaceAll(s, "</ul>", "</ul>\n")
	s = strings.ReplaceAll(s, "</ol>", "</ol>\n")
	s = strings.ReplaceAll(s, "</blockquote>", "</blockquote>\n")

	var out []string
	for _, line := range strings.Split(s, "\n") {
		runes := []rune(line)
		for len(runes) > width {
			out = append(out, string(runes[:width]))
			runes = runes[width:]
		}
		out = append(out, string(runes))
	}
	return out
}
