// Package config handles arith.toml harness configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kaskamal/arithmetic-machine/vm"
)

// FileName is the configuration file the harness looks for.
const FileName = "arith.toml"

// Config represents an arith.toml harness configuration.
type Config struct {
	Machine MachineConfig `toml:"machine"`
	Output  OutputConfig  `toml:"output"`

	// Dir is the directory containing the arith.toml file (set at load time).
	Dir string `toml:"-"`
}

// MachineConfig configures machine construction.
type MachineConfig struct {
	StackSize int `toml:"stack-size"`
}

// OutputConfig configures what the harness shows around a run.
type OutputConfig struct {
	Trace   bool `toml:"trace"`   // echo a disassembly line per instruction
	Listing bool `toml:"listing"` // disassemble the program before running it
}

// Default returns the configuration used when no arith.toml exists.
func Default() *Config {
	return &Config{
		Machine: MachineConfig{StackSize: vm.DefaultStackSize},
	}
}

// Load parses an arith.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if c.Machine.StackSize <= 0 {
		c.Machine.StackSize = vm.DefaultStackSize
	}

	return &c, nil
}

// FindAndLoad walks up from startDir to find an arith.toml file, then loads
// and returns the configuration. Returns Default() if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
