// Package config handles loading checker configuration from files.
//
// Configuration can be specified in a JSON file named shadertypes.json or
// .shadertypesrc. The config file is searched for in the current directory
// and parent directories.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HugoDaniel/shadertypes/internal/diagnostic"
	"github.com/HugoDaniel/shadertypes/internal/typetable"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// Color enables coloured text output (default true)
	Color *bool `json:"color,omitempty"`

	// Verbose enables debug logging
	Verbose *bool `json:"verbose,omitempty"`

	// CheckSymmetry also checks every query with its operands swapped
	CheckSymmetry *bool `json:"checkSymmetry,omitempty"`

	// Format is the report format, "text" or "json"
	Format *string `json:"format,omitempty"`

	// Diagnostics maps rule names to "error", "warning", "info" or "off"
	Diagnostics map[string]string `json:"diagnostics,omitempty"`
}

// Options are the resolved settings of a run.
type Options struct {
	Color   bool
	Verbose bool
	Format  string
	Table   typetable.Options
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Color:  true,
		Format: FormatText,
	}
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"shadertypes.json",
	".shadertypesrc",
	".shadertypesrc.json",
}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, no config found
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// ToOptions converts a Config to Options, using defaults for unset fields.
// A nil Config yields the defaults.
func (c *Config) ToOptions() (Options, error) {
	opts := DefaultOptions()
	if c == nil {
		return opts, nil
	}

	if c.Color != nil {
		opts.Color = *c.Color
	}
	if c.Verbose != nil {
		opts.Verbose = *c.Verbose
	}
	if c.CheckSymmetry != nil {
		opts.Table.CheckSymmetry = *c.CheckSymmetry
	}
	if c.Format != nil {
		if err := checkFormat(*c.Format); err != nil {
			return opts, err
		}
		opts.Format = *c.Format
	}
	if len(c.Diagnostics) > 0 {
		filter := diagnostic.NewDiagnosticFilter()
		for rule, level := range c.Diagnostics {
			if !knownRule(rule) {
				return opts, fmt.Errorf("unknown diagnostic rule %q", rule)
			}
			sev, err := diagnostic.ParseSeverity(level)
			if err != nil {
				return opts, fmt.Errorf("rule %s: %w", rule, err)
			}
			filter.SetRule(rule, sev)
		}
		opts.Table.Filter = filter
	}

	return opts, nil
}

// MergeOptions holds CLI flags; nil means not specified on the CLI.
type MergeOptions struct {
	NoColor       bool
	Verbose       *bool
	CheckSymmetry *bool
	Format        *string
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) (Options, error) {
	opts, err := c.ToOptions()
	if err != nil {
		return opts, err
	}

	// CLI overrides
	if cli.NoColor {
		opts.Color = false
	}
	if cli.Verbose != nil {
		opts.Verbose = *cli.Verbose
	}
	if cli.CheckSymmetry != nil {
		opts.Table.CheckSymmetry = *cli.CheckSymmetry
	}
	if cli.Format != nil {
		if err := checkFormat(*cli.Format); err != nil {
			return opts, err
		}
		opts.Format = *cli.Format
	}

	return opts, nil
}

func checkFormat(f string) error {
	switch f {
	case FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", f, FormatText, FormatJSON)
}

func knownRule(rule string) bool {
	switch rule {
	case diagnostic.RuleShapeMismatch,
		diagnostic.RuleUnresolvedDeclaration,
		diagnostic.RuleCyclicAlias,
		diagnostic.RuleCompatSymmetry:
		return true
	}
	return false
}
