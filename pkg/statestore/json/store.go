package json

import (
	"codeberg.org/miketth/kbswitch/pkg/kbswitch"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type StateStore struct {
	filename string
	lockname string
}

func NewStateStore(filename string) (*StateStore, error) {
	err := os.MkdirAll(filepath.Dir(filename), 0755)
	if err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	return &StateStore{
		filename: filename,
		lockname: filename + ".lock",
	}, nil
}

func (s *StateStore) Path() string {
	return s.filename
}

func (s *StateStore) Load() (kbswitch.State, error) {
	unlock, err := lockFile(s.lockname)
	if err != nil {
		return kbswitch.State{}, err
	}
	defer unlock()

	return s.load()
}

func (s *StateStore) Save(state kbswitch.State) error {
	unlock, err := lockFile(s.lockname)
	if err != nil {
		return err
	}
	defer unlock()

	return s.save(state)
}

func (s *StateStore) Update(fn func(state *kbswitch.State) error) (err error) {
	unlock, err := lockFile(s.lockname)
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}()

	state, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(&state); err != nil {
		return err
	}

	return s.save(state)
}

func (s *StateStore) load() (kbswitch.State, error) {
	data, err := os.ReadFile(s.filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return kbswitch.State{}, fmt.Errorf("%w (expected %s)", kbswitch.ErrNotInitialized, s.filename)
	case err != nil:
		return kbswitch.State{}, fmt.Errorf("%w: read file: %v", kbswitch.ErrStateCorruption, err)
	}

	var state kbswitch.State
	// Unmarshal rejects anything after the record
	if err := json.Unmarshal(data, &state); err != nil {
		return kbswitch.State{}, fmt.Errorf("%w: decode json: %v", kbswitch.ErrStateCorruption, err)
	}

	return state, nil
}

func (s *StateStore) save(state kbswitch.State) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.filename), filepath.Base(s.filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(state); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode json: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.filename); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
