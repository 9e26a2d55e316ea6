package config

import "errors"

var (
	// ErrUnsupportedFormat indicates a config file extension with no loader.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalidDelay indicates a negative change-notification delay.
	ErrInvalidDelay = errors.New("config: change delay must not be negative")

	// ErrEmptySchema indicates a schema with no block tags.
	ErrEmptySchema = errors.New("config: schema declares no block tags")
)
