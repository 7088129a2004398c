// Package config loads the kbswitch TOML configuration and resolves the XDG
// paths used for it and for the state record.
package config

import (
	"codeberg.org/miketth/kbswitch/pkg/kbswitch"
	"codeberg.org/miketth/kbswitch/pkg/xkblayouts"
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	"os"
	"strings"
	"time"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	MaxDuration time.Duration `toml:"max_duration"`
	Backend     string        `toml:"backend"`
	StatePath   string        `toml:"state_path"`
	Hyprctl     string        `toml:"hyprctl"`
	EvdevXML    string        `toml:"evdev_xml"`
	Debug       bool          `toml:"debug"`
	Journal     bool          `toml:"journal"`
}

func Default() Config {
	return Config{
		MaxDuration: kbswitch.DefaultMaxDuration,
		Backend:     BackendJSON,
		Hyprctl:     "hyprctl",
		EvdevXML:    xkblayouts.DefaultEvdevXMLPath,
		Journal:     true,
	}
}

// Load reads the config at path on top of the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("stat config: %w", err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if !kbswitch.ValidMaxDuration(c.MaxDuration) {
		return fmt.Errorf("%w: max_duration %v must be within [%v, %v]",
			ErrInvalid, c.MaxDuration, kbswitch.MinMaxDuration, kbswitch.MaxMaxDuration)
	}

	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}

	if c.Hyprctl == "" {
		return fmt.Errorf("%w: hyprctl path is empty", ErrInvalid)
	}

	return nil
}

func (c Config) SwitcherConfig() kbswitch.Config {
	return kbswitch.Config{MaxDuration: c.MaxDuration}
}
