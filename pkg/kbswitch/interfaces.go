package kbswitch

import "context"

type LayoutSource interface {
	GetLayouts(ctx context.Context) ([]string, error)
}

type LayoutActivator interface {
	SwitchToLayout(ctx context.Context, keyboard string, idx int) error
}

// StateStore persists the single switcher record.
//
// Update must hold an exclusive lock across load, fn and save so that two
// overlapping invocations cannot interleave. If fn returns an error nothing
// is written.
type StateStore interface {
	Load() (State, error)
	Save(state State) error
	Update(fn func(state *State) error) error
}
