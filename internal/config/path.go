package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the default data directory: $XDG_DATA_HOME/minelog
// when set, otherwise ~/.minelog, falling back to ./data without a home.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "minelog")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}
	return filepath.Join(homeDir, ".minelog")
}
