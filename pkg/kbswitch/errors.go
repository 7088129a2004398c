package kbswitch

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration   = errors.New("layout configuration unavailable")
	ErrStateCorruption = errors.New("switcher state corrupted")
	ErrUsage           = errors.New("usage error")
)

// ErrNotInitialized is returned by stores when no record has been written yet.
var ErrNotInitialized = fmt.Errorf("%w: no state found, run init first", ErrStateCorruption)
