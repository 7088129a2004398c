package main

import (
	"codeberg.org/miketth/kbswitch/pkg/config"
	"codeberg.org/miketth/kbswitch/pkg/hyprland"
	"codeberg.org/miketth/kbswitch/pkg/kbswitch"
	"codeberg.org/miketth/kbswitch/pkg/logging"
	jsonstore "codeberg.org/miketth/kbswitch/pkg/statestore/json"
	"codeberg.org/miketth/kbswitch/pkg/statestore/sqlite"
	"fmt"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	debug      bool

	cfg config.Config
	log *zap.SugaredLogger
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.debug {
		cfg.Debug = true
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Debug, cfg.Journal)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.log = log

	return nil
}

func (a *app) hyprctl() *hyprland.Hyprctl {
	return hyprland.NewHyprctl(a.cfg.Hyprctl)
}

// openStore returns the configured state backend and a function releasing it.
func (a *app) openStore() (kbswitch.StateStore, func() error, error) {
	path, err := a.cfg.ResolveStatePath()
	if err != nil {
		return nil, nil, err
	}

	a.log.Debugw("opening state store", "backend", a.cfg.Backend, "path", path)

	switch a.cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.NewStateStore(path, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("create sqlite state store: %w", err)
		}
		return store, store.Close, nil
	default:
		store, err := jsonstore.NewStateStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("create json state store: %w", err)
		}
		return store, func() error { return nil }, nil
	}
}
