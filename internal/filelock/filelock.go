// Package filelock provides advisory file locking so that concurrent
// taskflow processes (CLI, TUI, API server) do not interleave writes to
// the session file and the activity log.
package filelock

import "os"

const lockFileMode = 0o600

// Mode selects between a shared (reader) and an exclusive (writer) lock.
type Mode int

const (
	// Exclusive admits a single holder.
	Exclusive Mode = iota
	// Shared admits any number of Shared holders but no Exclusive one.
	Shared
)

// Lock acquires a lock of the given mode on the file at path, creating it
// if it does not exist. The returned function releases the lock. Callers
// block until the lock is available.
func Lock(path string, mode Mode) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f, mode); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the exclusive lock for target. The lock lives
// in a sibling file named target + ".lock" so target itself can be
// replaced.
func With(target string, fn func() error) error {
	return with(target, Exclusive, fn)
}

// WithShared runs fn while holding the shared lock for target. Readers use
// it so they never observe a half-written file.
func WithShared(target string, fn func() error) error {
	return with(target, Shared, fn)
}

func with(target string, mode Mode, fn func() error) (err error) {
	unlock, err := Lock(target+".lock", mode)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); err == nil {
			err = uerr
		}
	}()
	return fn()
}
