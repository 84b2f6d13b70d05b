package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotInitialized means no memory store exists at or above the working
// directory.
var ErrNotInitialized = errors.New("not a mnemo project (run \"mnemo init\" first)")

// ErrNothingToSnapshot means the resolved file set was empty. Snaps must be
// non-trivial.
var ErrNothingToSnapshot = errors.New("nothing to snapshot")

// NotTrackedError indicates an operation on a path outside the tracked set.
type NotTrackedError struct {
	Path string
}

func (e *NotTrackedError) Error() string {
	return fmt.Sprintf("file not tracked: %s", e.Path)
}

// DirtyWorkingTreeError is jump refusing to overwrite uncommitted changes.
// Paths lists the files whose content would be lost.
type DirtyWorkingTreeError struct {
	Paths []string
}

func (e *DirtyWorkingTreeError) Error() string {
	return fmt.Sprintf("working tree has uncommitted changes: %s (snap first or pass --discard)",
		strings.Join(e.Paths, ", "))
}
