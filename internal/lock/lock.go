// Package lock provides the repository-wide advisory file lock. Mutating
// operations (snap, jump, track, branch updates) take it exclusively; reads
// (status, history, validate) take it shared so they never observe a
// half-applied mutation.
package lock

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked is returned when the lock is held by another process.
var ErrLocked = errors.New("repository is locked by another process")

// Lock is a file-system lock scoped to one project's memory store.
type Lock struct {
	path string
	file *os.File
}

// New creates a lock handle for the given lock file path. No lock is taken
// until Acquire is called.
func New(path string) *Lock {
	return &Lock{path: path}
}

// AcquireExclusive takes the exclusive (writer) lock. Non-blocking: returns
// ErrLocked immediately if any other process holds the lock.
func (l *Lock) AcquireExclusive() error {
	return l.acquire(true)
}

// AcquireShared takes the shared (reader) lock. Multiple readers may hold it
// concurrently; returns ErrLocked if a writer holds the lock.
func (l *Lock) AcquireShared() error {
	return l.acquire(false)
}

func (l *Lock) acquire(exclusive bool) error {
	if l.file != nil {
		return fmt.Errorf("lock already held")
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := flockFile(f, exclusive); err != nil {
		f.Close()
		return err
	}

	l.file = f
	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	err := funlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return err
	}
	return closeErr
}
