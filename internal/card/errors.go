package card

import "errors"

// Errors returned by the card registry.
var (
	// ErrUnknownCard is returned when inserting a card with no registered
	// definition.
	ErrUnknownCard = errors.New("unknown card definition")

	// ErrNotCard is returned when a node is not a card root.
	ErrNotCard = errors.New("node is not a card root")
)
