// Package config loads terminal engine settings from TOML
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/cellterm/terminal"
)

// Input and output mode names accepted in config files
const (
	InputModeEsc = "esc"
	InputModeAlt = "alt"

	OutputModeNormal = "normal"
	OutputMode256    = "256"
	OutputModeAuto   = "auto"
)

// maxEscapeDelayMs bounds escape_delay_ms; longer delays make ESC feel stuck
const maxEscapeDelayMs = 1000

// Config is the on-disk engine configuration
type Config struct {
	TTY           string      `toml:"tty"`
	EscapeDelayMs int         `toml:"escape_delay_ms"`
	InputMode     string      `toml:"input_mode"`
	OutputMode    string      `toml:"output_mode"`
	Clear         ClearColors `toml:"clear"`

	// Keys maps extra escape sequences to key names, e.g. "\u001b[25~" = "f1"
	Keys map[string]string `toml:"keys"`
}

// ClearColors names the colors used by ClearDefault
type ClearColors struct {
	Fg string `toml:"fg"`
	Bg string `toml:"bg"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		TTY:           terminal.DefaultTTYPath,
		EscapeDelayMs: int(terminal.DefaultEscapeDelay / time.Millisecond),
		InputMode:     InputModeEsc,
		OutputMode:    OutputModeNormal,
		Clear: ClearColors{
			Fg: "default",
			Bg: "default",
		},
	}
}

// Load reads and validates the file at path over the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing toml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names
func (c *Config) Validate() error {
	if c.EscapeDelayMs < 1 || c.EscapeDelayMs > maxEscapeDelayMs {
		return errors.Errorf("escape_delay_ms %d out of range [1, %d]", c.EscapeDelayMs, maxEscapeDelayMs)
	}

	switch c.InputMode {
	case InputModeEsc, InputModeAlt:
	default:
		return errors.Errorf("input_mode %q: want %q or %q", c.InputMode, InputModeEsc, InputModeAlt)
	}

	switch c.OutputMode {
	case OutputModeNormal, OutputMode256, OutputModeAuto:
	default:
		return errors.Errorf("output_mode %q: want %q, %q or %q", c.OutputMode, OutputModeNormal, OutputMode256, OutputModeAuto)
	}

	if _, err := terminal.ParseColor(c.Clear.Fg); err != nil {
		return errors.Wrap(err, "clear.fg")
	}
	if _, err := terminal.ParseColor(c.Clear.Bg); err != nil {
		return errors.Wrap(err, "clear.bg")
	}

	for seq, name := range c.Keys {
		if len(seq) < 2 || seq[0] != 0x1b {
			return errors.Errorf("keys: sequence %q must start with ESC", seq)
		}
		if _, ok := terminal.KeyByName(name); !ok {
			return errors.Errorf("keys: unknown key name %q for sequence %q", name, seq)
		}
	}
	return nil
}

// Options converts the configuration into engine options; c must be valid
func (c *Config) Options(logger *slog.Logger) terminal.Options {
	opts := terminal.Options{
		TTYPath:     c.TTY,
		EscapeDelay: time.Duration(c.EscapeDelayMs) * time.Millisecond,
		Logger:      logger,
	}

	if c.InputMode == InputModeAlt {
		opts.InputMode = terminal.InputAlt
	}

	switch c.OutputMode {
	case OutputMode256:
		opts.OutputMode = terminal.Output256
	case OutputModeAuto:
		opts.OutputMode = terminal.DetectOutputMode()
	}

	if len(c.Keys) > 0 {
		opts.KeySequences = make(map[string]terminal.Key, len(c.Keys))
		for seq, name := range c.Keys {
			if k, ok := terminal.KeyByName(name); ok {
				opts.KeySequences[seq] = k
			}
		}
	}

	opts.ClearFg, _ = terminal.ParseColor(c.Clear.Fg)
	opts.ClearBg, _ = terminal.ParseColor(c.Clear.Bg)
	return opts
}
