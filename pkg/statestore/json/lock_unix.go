//go:build unix

package json

import (
	"fmt"
	"golang.org/x/sys/unix"
	"os"
)

// lockFile opens path and takes an exclusive flock on it. The returned
// function releases the lock and closes the file.
func lockFile(path string) (func() error, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("flock: %w", err)
	}

	return func() error {
		if err := unix.Flock(int(file.Fd()), unix.LOCK_UN); err != nil {
			_ = file.Close()
			return fmt.Errorf("unlock: %w", err)
		}
		return file.Close()
	}, nil
}
