//go:build unix

package lock

import (
	"os"
	"syscall"
)

// flockFile locks via flock(2). LOCK_NB keeps acquisition non-blocking; an
// already-held lock surfaces as ErrLocked rather than a wait.
func flockFile(f *os.File, exclusive bool) error {
	how := syscall.LOCK_SH
	if exclusive {
		how = syscall.LOCK_EX
	}

	err := syscall.Flock(int(f.Fd()), how|syscall.LOCK_NB)
	if err != nil {
		if err == syscall.EWOULDBLOCK {
			return ErrLocked
		}
		return err
	}
	return nil
}

func funlockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
