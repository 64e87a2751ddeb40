// Package config loads tool configuration from .storymod.yaml with sensible
// defaults for every field, so running without a config file just works.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = ".storymod.yaml"

// Printer controls the emitted declaration style.
type Printer struct {
	// Quote is "single" or "double".
	Quote string `yaml:"quote"`
	// TrailingComma appends commas after the last entry of emitted literals.
	TrailingComma bool `yaml:"trailingComma"`
	// Indent is the number of spaces per indentation level.
	Indent int `yaml:"indent"`
}

// Config is the full tool configuration.
type Config struct {
	// LegacyName is the identifier of the legacy registration function.
	LegacyName string `yaml:"legacyName"`

	// Extensions are the file extensions considered for rewriting.
	Extensions []string `yaml:"extensions"`

	// Include are base-name glob patterns a file must match. Empty means all.
	Include []string `yaml:"include"`

	// Exclude are directory base names skipped during discovery.
	Exclude []string `yaml:"exclude"`

	// Jobs caps concurrent file transforms. Zero means one per CPU.
	Jobs int `yaml:"jobs"`

	Printer Printer `yaml:"printer"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		LegacyName: "storiesOf",
		Extensions: []string{".js", ".jsx", ".mjs", ".ts", ".tsx"},
		Exclude:    []string{"node_modules"},
		Jobs:       runtime.NumCPU(),
		Printer: Printer{
			Quote:         "single",
			TrailingComma: true,
			Indent:        2,
		},
	}
}

// Load reads the config at path, layering it over defaults. A missing file at
// the default path is fine; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the transform or runner cannot work with.
func (c *Config) Validate() error {
	if c.LegacyName == "" {
		return fmt.Errorf("legacyName must not be empty")
	}
	if c.Printer.Quote != "single" && c.Printer.Quote != "double" {
		return fmt.Errorf("printer.quote must be %q or %q, got %q", "single", "double", c.Printer.Quote)
	}
	if c.Printer.Indent < 1 {
		return fmt.Errorf("printer.indent must be positive, got %d", c.Printer.Indent)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must not be empty")
	}
	return nil
}
