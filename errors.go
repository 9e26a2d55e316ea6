package richedit

import "errors"

// ErrDestroyed is returned by operations on a destroyed editor.
var ErrDestroyed = errors.New("richedit: editor destroyed")
