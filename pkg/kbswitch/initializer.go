package kbswitch

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"time"
)

type Initializer struct {
	source LayoutSource
	store  StateStore
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewInitializer(source LayoutSource, store StateStore, log *zap.SugaredLogger) *Initializer {
	return &Initializer{
		source: source,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

// Init writes a fresh record for the currently configured layouts,
// overwriting whatever was stored before.
func (i *Initializer) Init(ctx context.Context) (State, error) {
	count, err := i.layoutCount(ctx)
	if err != nil {
		return State{}, err
	}

	state, err := NewState(count, i.now())
	if err != nil {
		return State{}, err
	}

	if err := i.store.Save(state); err != nil {
		return State{}, fmt.Errorf("save state: %w", err)
	}

	i.log.Infow("initialized switcher state", "layouts", count)
	return state, nil
}

// Refresh resets the layout order after the compositor's layout list changed,
// keeping the press timing of the existing record.
func (i *Initializer) Refresh(ctx context.Context) (State, error) {
	count, err := i.layoutCount(ctx)
	if err != nil {
		return State{}, err
	}

	fresh, err := NewState(count, i.now())
	if err != nil {
		return State{}, err
	}

	var updated State
	err = i.store.Update(func(state *State) error {
		state.Layouts = fresh.Layouts
		state.CurAll = 0
		if state.CurFreq < 0 || state.CurFreq >= min(2, count) {
			state.CurFreq = 0
		}
		updated = state.Clone()
		return nil
	})
	if err != nil {
		return State{}, fmt.Errorf("update state: %w", err)
	}

	i.log.Infow("refreshed layouts", "layouts", count)
	return updated, nil
}

func (i *Initializer) layoutCount(ctx context.Context) (int, error) {
	layouts, err := i.source.GetLayouts(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: get layouts: %v", ErrConfiguration, err)
	}
	if len(layouts) == 0 {
		return 0, fmt.Errorf("%w: no layouts configured", ErrConfiguration)
	}

	return len(layouts), nil
}
