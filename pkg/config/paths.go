package config

import (
	"fmt"
	"github.com/adrg/xdg"
	"path/filepath"
)

const appDir = "kbswitch"

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.toml")
}

// ResolveStatePath returns the configured state location, or the default one under
// the XDG data directory, creating its parent directory.
func (c Config) ResolveStatePath() (string, error) {
	if c.StatePath != "" {
		return c.StatePath, nil
	}

	name := "state.json"
	if c.Backend == BackendSQLite {
		name = "state.db"
	}

	path, err := xdg.DataFile(filepath.Join(appDir, name))
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return path, nil
}
