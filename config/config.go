// Package config holds the settings shared by the bfk library and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/deepnoodle-ai/bfk/op"
)

// FileName is the name of the per-user configuration file.
const FileName = ".bfk.toml"

// Defaults.
const (
	DefaultTapeSize      = 64000
	DefaultMaxSourceSize = 64 << 20
)

// Config controls how source is read and how programs run.
type Config struct {
	// TapeSize is the number of cells on the tape.
	TapeSize int `toml:"tape-size"`

	// Alphabet lists the source characters kept by the filter. Every other
	// byte is discarded as commentary.
	Alphabet string `toml:"alphabet"`

	// MaxSourceSize caps the size of a source buffer in bytes. Zero means
	// no cap.
	MaxSourceSize int `toml:"max-source-size"`

	// NoInput disconnects Read instructions from stdin.
	NoInput bool `toml:"no-input"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		TapeSize:      DefaultTapeSize,
		Alphabet:      op.Alphabet,
		MaxSourceSize: DefaultMaxSourceSize,
	}
}

// Load parses a TOML configuration file. Settings missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// UserPath returns the path of the per-user configuration file.
func UserPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// LoadUser loads the per-user configuration file if it exists, otherwise it
// returns the defaults.
func LoadUser() (*Config, error) {
	path, err := UserPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.TapeSize < 1 {
		return fmt.Errorf("tape-size must be positive (got %d)", c.TapeSize)
	}
	if c.MaxSourceSize < 0 {
		return fmt.Errorf("max-source-size must not be negative (got %d)", c.MaxSourceSize)
	}
	if c.Alphabet == "" {
		return fmt.Errorf("alphabet must not be empty")
	}
	for i := 0; i < len(c.Alphabet); i++ {
		if _, ok := op.FromChar(c.Alphabet[i]); !ok {
			return fmt.Errorf("alphabet contains %q, which is not an instruction", c.Alphabet[i])
		}
	}
	return nil
}
