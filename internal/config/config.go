package config

import (
	"time"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/mark"
)

// Config is the full editor configuration.
type Config struct {
	Schema SchemaConfig          `toml:"schema" yaml:"schema"`
	Marks  map[string]MarkConfig `toml:"marks" yaml:"marks"`
	Change ChangeConfig          `toml:"change" yaml:"change"`
	Log    LogConfig             `toml:"log" yaml:"log"`
}

// SchemaConfig declares which element tags belong to each structural class.
type SchemaConfig struct {
	Blocks     []string `toml:"blocks" yaml:"blocks"`
	RootBlocks []string `toml:"root_blocks" yaml:"root_blocks"`
	Marks      []string `toml:"marks" yaml:"marks"`
	Inlines    []string `toml:"inlines" yaml:"inlines"`
	Voids      []string `toml:"voids" yaml:"voids"`
	Mergeable  []string `toml:"mergeable" yaml:"mergeable"`
	Wrappers   []string `toml:"wrappers" yaml:"wrappers"`
}

// MarkConfig is the per-tag mark policy.
type MarkConfig struct {
	// FollowStyle controls whether text typed at this mark's boundary
	// inherits the mark.
	FollowStyle bool `toml:"follow_style" yaml:"follow_style"`
}

// ChangeConfig tunes change notification.
type ChangeConfig struct {
	// DelayMS is the debounce window in milliseconds between the last
	// mutation and the change report.
	DelayMS int `toml:"delay_ms" yaml:"delay_ms"`
}

// LogConfig tunes logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	sets := dom.DefaultTagSets()
	return &Config{
		Schema: SchemaConfig{
			Blocks:     sets.Blocks,
			RootBlocks: sets.RootBlocks,
			Marks:      sets.Marks,
			Inlines:    sets.Inlines,
			Voids:      sets.Voids,
			Mergeable:  sets.Mergeable,
			Wrappers:   sets.Wrappers,
		},
		Marks: map[string]MarkConfig{
			"code": {FollowStyle: false},
		},
		Change: ChangeConfig{DelayMS: 200},
		Log:    LogConfig{Level: "info"},
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Change.DelayMS < 0 {
		return ErrInvalidDelay
	}
	if len(c.Schema.Blocks) == 0 {
		return ErrEmptySchema
	}
	return nil
}

// TagSets converts the schema section into the classifier's input.
func (c *Config) TagSets() dom.TagSets {
	return dom.TagSets{
		Blocks:     c.Schema.Blocks,
		RootBlocks: c.Schema.RootBlocks,
		Marks:      c.Schema.Marks,
		Inlines:    c.Schema.Inlines,
		Voids:      c.Schema.Voids,
		Mergeable:  c.Schema.Mergeable,
		Wrappers:   c.Schema.Wrappers,
	}
}

// ChangeDelay returns the debounce window as a duration.
func (c *Config) ChangeDelay() time.Duration {
	return time.Duration(c.Change.DelayMS) * time.Millisecond
}

// ConfigureMarks registers the per-tag policies on a mark registry.
func (c *Config) ConfigureMarks(reg *mark.Registry) {
	for tag, mc := range c.Marks {
		reg.Register(tag, mark.Plugin{FollowStyle: mc.FollowStyle})
	}
}
