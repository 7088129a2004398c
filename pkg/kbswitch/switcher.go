package kbswitch

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"time"
)

type Config struct {
	// MaxDuration is the largest gap between presses that still counts as
	// part of a burst. A threshold stored in the state record wins over it.
	MaxDuration time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{MaxDuration: DefaultMaxDuration}
}

type Switcher struct {
	cfg       Config
	store     StateStore
	activator LayoutActivator
	log       *zap.SugaredLogger
}

func NewSwitcher(
	cfg Config,
	store StateStore,
	activator LayoutActivator,
	log *zap.SugaredLogger,
) *Switcher {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Switcher{
		cfg:       cfg,
		store:     store,
		activator: activator,
		log:       log,
	}
}

// Switch handles one hotkey press for the given keyboard and returns the
// layout index that was requested from the compositor.
func (s *Switcher) Switch(ctx context.Context, keyboard string) (int, error) {
	var layout int

	err := s.store.Update(func(state *State) error {
		if err := state.Validate(); err != nil {
			return err
		}

		maxDuration := s.effectiveMaxDuration(*state)
		layout = Advance(state, s.cfg.Now(), maxDuration)

		s.log.Debugw("computed press",
			"keyboard", keyboard,
			"layout", layout,
			"counter", state.Counter,
			"cur_freq", state.CurFreq,
			"cur_all", state.CurAll,
			"layouts", state.Layouts,
		)

		// the new timing baseline is kept even if the compositor refuses
		if err := s.activator.SwitchToLayout(ctx, keyboard, layout); err != nil {
			s.log.Warnw("could not activate layout", "keyboard", keyboard, "layout", layout, "error", err)
		}

		return nil
	})
	if err != nil {
		return -1, fmt.Errorf("update state: %w", err)
	}

	return layout, nil
}

func (s *Switcher) MaxDuration() (time.Duration, error) {
	state, err := s.store.Load()
	if err != nil {
		return 0, fmt.Errorf("load state: %w", err)
	}

	return s.effectiveMaxDuration(state), nil
}

func (s *Switcher) SetMaxDuration(d time.Duration) error {
	if !ValidMaxDuration(d) {
		return fmt.Errorf("%w: keypress duration %v must be within [%v, %v]", ErrUsage, d, MinMaxDuration, MaxMaxDuration)
	}

	err := s.store.Update(func(state *State) error {
		if err := state.Validate(); err != nil {
			return err
		}
		state.MaxDuration = d.Seconds()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update state: %w", err)
	}

	s.log.Infow("stored keypress duration", "duration", d)
	return nil
}

func (s *Switcher) effectiveMaxDuration(state State) time.Duration {
	if state.MaxDuration > 0 {
		return fromSeconds(state.MaxDuration)
	}
	return s.cfg.MaxDuration
}

// Advance applies a press at time now to state and returns the layout index to
// activate.
func Advance(state *State, now time.Time, maxDuration time.Duration) int {
	computeTimeAndCounter(state, seconds(now), maxDuration.Seconds())
	handlePress(state)
	return state.Active()
}

func computeTimeAndCounter(state *State, pressTime, maxDuration float64) {
	diff := pressTime - state.LastTime
	state.LastTime = pressTime

	state.SumTime += diff

	if state.SumTime < maxDuration {
		state.Counter++
	} else {
		state.SumTime = 0
		state.Counter = 1
	}

	if state.Counter >= 2 {
		state.SumTime = 0
	}
}

func handlePress(state *State) {
	n := len(state.Layouts)

	if state.Counter <= 1 {
		state.CurFreq = (state.CurFreq + 1) % min(2, n)
		return
	}

	curAll := 2
	if state.Counter > 2 {
		curAll = state.CurAll + 1
	}
	curAll %= n

	// wrap instead of stepping past the end when the last slot is active
	if curAll == state.CurFreq {
		curAll = (curAll + 1) % n
	}

	state.CurAll = curAll
	state.Layouts[state.CurFreq], state.Layouts[curAll] = state.Layouts[curAll], state.Layouts[state.CurFreq]
}
