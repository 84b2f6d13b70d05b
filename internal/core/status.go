package core

import (
	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/resolver"
	"github.com/kvassbo/mnemo/internal/store"
)

// StatusResult is the working tree state relative to the branch head.
type StatusResult struct {
	Branch         string
	Head           string
	Untracked      []string
	Modified       []string
	Unmodified     []string
	TrackedCount   int
	PendingChanges int
}

// Status classifies every project file against the tracked set and the head
// tree. Pure read; never mutates state.
func Status(cfg *config.Config, st *store.Store, obj objectstore.Store) (*StatusResult, error) {
	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}

	tracked, err := st.ListTracked()
	if err != nil {
		return nil, err
	}

	tree, head, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}

	// Tracked files classify against the head tree, including ones deleted
	// from disk; untracked files come from walking the project.
	cls, err := r.Resolve(nil, tracked, tree)
	if err != nil {
		return nil, err
	}

	onDisk, err := r.Expand([]string{"."})
	if err != nil {
		return nil, err
	}
	trackedSet := make(map[string]struct{}, len(tracked))
	for _, p := range tracked {
		trackedSet[p] = struct{}{}
	}
	var untracked []string
	for _, rel := range onDisk {
		if _, ok := trackedSet[rel]; !ok {
			untracked = append(untracked, rel)
		}
	}

	branch, err := st.GetActiveBranch()
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Branch:         branch,
		Head:           head,
		Untracked:      untracked,
		Modified:       cls.TrackedModified,
		Unmodified:     cls.TrackedUnmodified,
		TrackedCount:   len(tracked),
		PendingChanges: len(cls.TrackedModified),
	}, nil
}

// Classify returns the raw three-way split for a candidate set.
func Classify(cfg *config.Config, st *store.Store, obj objectstore.Store, candidates []string) (*resolver.Classification, error) {
	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}
	tracked, err := st.ListTracked()
	if err != nil {
		return nil, err
	}
	tree, _, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}
	return r.Resolve(candidates, tracked, tree)
}
