package kbswitch

import (
	"fmt"
	"slices"
	"time"
)

const (
	DefaultMaxDuration = 500 * time.Millisecond
	MinMaxDuration     = 200 * time.Millisecond
	MaxMaxDuration     = time.Second
)

// State is the record shared by every invocation. Times are float seconds so
// the file stays readable and comparable across versions.
type State struct {
	LastTime    float64 `json:"last_time"`
	Layouts     []int   `json:"layouts"`
	CurFreq     int     `json:"cur_freq"`
	CurAll      int     `json:"cur_all"`
	SumTime     float64 `json:"sum_time"`
	Counter     int     `json:"counter"`
	MaxDuration float64 `json:"max_duration,omitempty"`
}

func NewState(layoutCount int, now time.Time) (State, error) {
	if layoutCount < 1 {
		return State{}, fmt.Errorf("%w: no layouts configured", ErrConfiguration)
	}

	layouts := make([]int, layoutCount)
	for i := range layouts {
		layouts[i] = i
	}

	return State{
		LastTime: seconds(now),
		Layouts:  layouts,
	}, nil
}

func (s State) Clone() State {
	s.Layouts = slices.Clone(s.Layouts)
	return s
}

// Active returns the layout index currently occupying the active frequent slot.
func (s State) Active() int {
	return s.Layouts[s.CurFreq]
}

func (s State) Validate() error {
	n := len(s.Layouts)
	if n == 0 {
		return fmt.Errorf("%w: empty layout list", ErrStateCorruption)
	}

	seen := make([]bool, n)
	for _, l := range s.Layouts {
		if l < 0 || l >= n || seen[l] {
			return fmt.Errorf("%w: layouts %v is not a permutation of 0..%d", ErrStateCorruption, s.Layouts, n-1)
		}
		seen[l] = true
	}

	if s.CurFreq < 0 || s.CurFreq > 1 || s.CurFreq >= n {
		return fmt.Errorf("%w: cur_freq %d out of range", ErrStateCorruption, s.CurFreq)
	}
	if s.CurAll < 0 || s.CurAll >= n {
		return fmt.Errorf("%w: cur_all %d out of range", ErrStateCorruption, s.CurAll)
	}
	if s.Counter < 0 {
		return fmt.Errorf("%w: negative counter %d", ErrStateCorruption, s.Counter)
	}
	if s.MaxDuration != 0 && !ValidMaxDuration(fromSeconds(s.MaxDuration)) {
		return fmt.Errorf("%w: max_duration %vs out of range", ErrStateCorruption, s.MaxDuration)
	}

	return nil
}

func ValidMaxDuration(d time.Duration) bool {
	return d >= MinMaxDuration && d <= MaxMaxDuration
}

func seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
