package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath pins the config file, bypassing the search.
const EnvConfigPath = "STRMSYNC_CONFIG"

// ErrNoConfig is returned by Discover when none of the search paths exist.
var ErrNoConfig = errors.New("no config file found")

// DefaultPath is where init writes a new config:
// $XDG_CONFIG_HOME/strmsync/config.toml, falling back to ~/.config.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "strmsync", "config.toml")
}

// SearchPaths lists the candidates Discover checks, in order.
func SearchPaths() []string {
	return []string{
		"config.toml",
		DefaultPath(),
		"/etc/strmsync/config.toml",
	}
}

// Discover returns the config file to load. $STRMSYNC_CONFIG wins when set
// and must exist; otherwise the first regular file in SearchPaths is used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfigPath, p, err)
		}
		return p, nil
	}

	candidates := SearchPaths()
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (searched %s)", ErrNoConfig, strings.Join(candidates, ", "))
}
