package memory

import (
	"codeberg.org/miketth/kbswitch/pkg/kbswitch"
	"sync"
)

type StateStore struct {
	lock  sync.Mutex
	state *kbswitch.State
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) Load() (kbswitch.State, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.load()
}

func (s *StateStore) Save(state kbswitch.State) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.save(state)
	return nil
}

func (s *StateStore) Update(fn func(state *kbswitch.State) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(&state); err != nil {
		return err
	}

	s.save(state)
	return nil
}

func (s *StateStore) load() (kbswitch.State, error) {
	if s.state == nil {
		return kbswitch.State{}, kbswitch.ErrNotInitialized
	}
	return s.state.Clone(), nil
}

func (s *StateStore) save(state kbswitch.State) {
	stored := state.Clone()
	s.state = &stored
}
