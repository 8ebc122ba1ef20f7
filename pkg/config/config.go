// Package config loads canonpath's optional configuration file. The file
// lives at $XDG_CONFIG_HOME/canonpath/config.toml unless overridden via
// the CANONPATH_CONFIG environment variable; a missing file yields the
// built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/canonpath/canonpath/pkg/errors"
)

// EnvConfigFile overrides the configuration file location
const EnvConfigFile = "CANONPATH_CONFIG"

// ConfigFileName is the name of the configuration file
const ConfigFileName = "config.toml"

// Config holds the user-tunable defaults for the CLI
type Config struct {
	Resolve ResolveConfig `toml:"resolve"`
	Logging LoggingConfig `toml:"logging"`
}

// ResolveConfig controls resolution defaults
type ResolveConfig struct {
	// Exact requires the final path component to exist
	Exact bool `toml:"exact"`
}

// LoggingConfig controls logging defaults
type LoggingConfig struct {
	// Verbosity is the default log verbosity (0 WARN .. 3 TRACE)
	Verbosity int `toml:"verbosity"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{}
}

// Path returns the configuration file location, honoring the
// CANONPATH_CONFIG override.
func Path() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "canonpath", ConfigFileName)
}

// Load reads the configuration file at Path. A missing file is not an
// error; the defaults are returned.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse config file %s", path)
	}

	return cfg, nil
}
