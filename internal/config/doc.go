// Package config loads and watches editor configuration.
//
// Configuration lives in a single TOML or YAML file and layers onto
// compiled-in defaults: a file only needs the keys it changes. The watcher
// reloads the file on change so schema and mark policy adjustments apply to
// a running editor.
package config
