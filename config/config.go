// Package config handles chaos.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/chaos-lang/chaos/vm"
)

// FileName is the name of the configuration file searched for by FindAndLoad.
const FileName = "chaos.toml"

// Color modes accepted by the [output] color key.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents a chaos.toml configuration.
type Config struct {
	Compiler Compiler `toml:"compiler"`
	VM       VM       `toml:"vm"`
	Output   Output   `toml:"output"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// Compiler configures compilation.
type Compiler struct {
	ReverseStatements bool `toml:"reverse_statements"`
	NormalizeStrings  bool `toml:"normalize_strings"`
}

// VM configures execution.
type VM struct {
	Trace                bool `toml:"trace"`
	ContextCheckInterval int  `toml:"context_check_interval"`
}

// Output configures terminal output.
type Output struct {
	Color string `toml:"color"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		VM:     VM{ContextCheckInterval: vm.DefaultContextCheckInterval},
		Output: Output{Color: ColorAuto},
	}
}

// Parse decodes TOML text on top of the defaults. Unknown keys are errors.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// FindAndLoad walks up from startDir to find a chaos.toml file and loads it.
// The defaults are returned when no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate reports every invalid value in the configuration.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.VM.ContextCheckInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf(
			"vm.context_check_interval must be positive (got %d)", c.VM.ContextCheckInterval))
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		result = multierror.Append(result, fmt.Errorf(
			"output.color must be %q, %q or %q (got %q)", ColorAuto, ColorAlways, ColorNever, c.Output.Color))
	}
	return result.ErrorOrNil()
}

// UseColor resolves the color mode. In auto mode color follows whether the
// output is a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Output.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
