package kbswitch

import (
	"context"
	"errors"
	"time"
)

var t0 = time.Unix(1_700_000_000, 0)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type fakeStore struct {
	state *State
	saves int
}

func (s *fakeStore) Load() (State, error) {
	if s.state == nil {
		return State{}, ErrNotInitialized
	}
	return s.state.Clone(), nil
}

func (s *fakeStore) Save(state State) error {
	stored := state.Clone()
	s.state = &stored
	s.saves++
	return nil
}

func (s *fakeStore) Update(fn func(state *State) error) error {
	state, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(&state); err != nil {
		return err
	}
	return s.Save(state)
}

type activation struct {
	keyboard string
	idx      int
}

type fakeActivator struct {
	calls []activation
	err   error
}

func (a *fakeActivator) SwitchToLayout(_ context.Context, keyboard string, idx int) error {
	a.calls = append(a.calls, activation{keyboard: keyboard, idx: idx})
	return a.err
}

type fakeSource struct {
	layouts []string
	err     error
}

func (s fakeSource) GetLayouts(context.Context) ([]string, error) {
	return s.layouts, s.err
}

var errHyprctl = errors.New("hyprctl exploded")
