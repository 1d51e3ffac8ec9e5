// Package config loads persistent tool settings from a TOML file.
// Settings fill in for flags the user did not pass; an explicit flag
// always wins.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/budgetflow/budgetflow/pkg/errors"
)

// Config holds the settings a user can persist instead of repeating
// them as flags. Zero values mean "not set".
type Config struct {
	FiscalYear   string  `toml:"fiscal_year"`
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	NodeWidth    float64 `toml:"node_width"`
	NodePadding  float64 `toml:"node_padding"`
	AgencyCutoff int     `toml:"agency_cutoff"`
	BaseURL      string  `toml:"base_url"`
	Output       string  `toml:"output"`
}

// DefaultPath returns the conventional config location,
// ~/.config/budgetflow/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve home directory")
	}
	return filepath.Join(home, ".config", "budgetflow", "config.toml"), nil
}

// Load reads a config file. A missing file at the default path is not an
// error, the zero Config is returned. A missing file at an explicitly
// given path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config file %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	return cfg, nil
}
