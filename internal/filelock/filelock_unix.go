//go:build !windows

package filelock

import (
	"os"

	"golang.org/x/sys/unix"
)

func flockOp(mode Mode) int {
	if mode == Shared {
		return unix.LOCK_SH
	}
	return unix.LOCK_EX
}

// lockFile retries on EINTR; flock is interrupted by signals such as the
// SIGWINCH a resizing TUI receives.
func lockFile(f *os.File, mode Mode) error {
	op := flockOp(mode)
	for {
		if err := unix.Flock(int(f.Fd()), op); err != unix.EINTR {
			return err
		}
	}
}

func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
