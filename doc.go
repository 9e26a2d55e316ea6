// Package richedit is the structural-editing core of a rich-text document
// editor. It turns host input and selection events into consistent
// mutations of a formatted content tree while keeping the selection
// semantically valid across every mutation.
//
// The content tree is golang.org/x/net/html nodes classified by a
// configurable schema into blocks, inlines, formatting marks, voids and
// embedded cards. An Editor owns one editable root and exposes the
// mutators: delete-range, insert-fragment, block merge and unwrap, typed
// input with mark-boundary repair, and debounced change notification.
//
//	ed, err := richedit.New("<p>hello</p>")
//	if err != nil { ... }
//	ed.Select(richedit.CollapseAtEnd(ed.Root()))
//	ed.InsertText("!")
//	value, _ := ed.GetValue(richedit.ValueOptions{IgnoreCursor: true})
package richedit
