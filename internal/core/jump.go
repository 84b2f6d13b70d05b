package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/resolver"
	"github.com/kvassbo/mnemo/internal/store"
)

// JumpOptions controls how a jump treats uncommitted changes.
type JumpOptions struct {
	Discard bool // overwrite uncommitted changes instead of refusing
}

// Jump restores the working directory to a past commit and continues history
// on a fresh branch. No existing branch pointer moves and no commit is ever
// removed, so every previous trajectory stays reachable.
func Jump(cfg *config.Config, st *store.Store, obj objectstore.Store, ref string, opts JumpOptions) (*models.JumpRecord, error) {
	target, err := obj.ResolveCommit(ref)
	if err != nil {
		return nil, err
	}

	reachable, err := commitReachable(st, obj, target)
	if err != nil {
		return nil, err
	}
	if !reachable {
		return nil, &objectstore.CommitNotFoundError{Ref: ref}
	}

	targetTree, _, _, err := obj.GetCommit(target)
	if err != nil {
		return nil, err
	}

	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}
	tracked, err := st.ListTracked()
	if err != nil {
		return nil, err
	}
	tree, fromCommit, err := headTree(st, obj)
	if err != nil {
		return nil, err
	}

	if !opts.Discard {
		conflicts, err := jumpConflicts(r, tracked, tree, targetTree)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &DirtyWorkingTreeError{Paths: conflicts}
		}
	}

	fromBranch, err := st.GetActiveBranch()
	if err != nil {
		return nil, err
	}
	newBranch, err := st.NextJumpBranch()
	if err != nil {
		return nil, err
	}

	if err := obj.Checkout(target, cfg.ProjectPath()); err != nil {
		return nil, fmt.Errorf("restore working tree: %w", err)
	}

	// Checkout only writes; tracked files absent from the target are
	// removed here so the tree matches the commit exactly.
	for _, rel := range tracked {
		if _, ok := targetTree[rel]; ok {
			continue
		}
		if err := removeIfPresent(r.Abs(rel)); err != nil {
			return nil, fmt.Errorf("remove %s: %w", rel, err)
		}
	}

	branch := &models.Branch{
		Name:        newBranch,
		CommitID:    target,
		CreatedFrom: target,
		CreatedAt:   time.Now(),
	}
	if err := st.SwitchTo(branch); err != nil {
		return nil, err
	}
	_ = obj.CreateBranch(newBranch, target)

	if err := retargetTracked(st, tracked, targetTree); err != nil {
		return nil, err
	}

	rec := &models.JumpRecord{
		Timestamp:  time.Now(),
		FromCommit: fromCommit,
		ToCommit:   target,
		FromBranch: fromBranch,
		NewBranch:  newBranch,
	}
	if err := st.AppendJump(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// commitReachable reports whether id is an ancestor of any branch head.
func commitReachable(st *store.Store, obj objectstore.Store, id string) (bool, error) {
	branches, err := st.ListBranches()
	if err != nil {
		return false, err
	}
	for _, b := range branches {
		ids, err := obj.Ancestry(b.CommitID, 0)
		if err != nil {
			return false, err
		}
		for _, a := range ids {
			if a == id {
				return true, nil
			}
		}
	}
	return false, nil
}

// jumpConflicts lists paths whose uncommitted content the restore would
// destroy: tracked files modified since the head commit, and untracked
// on-disk files the target tree would overwrite.
func jumpConflicts(r *resolver.Resolver, tracked []string, headTree, targetTree objectstore.Tree) ([]string, error) {
	cls, err := r.Resolve(nil, tracked, headTree)
	if err != nil {
		return nil, err
	}
	conflicts := append([]string{}, cls.TrackedModified...)

	onDisk, err := r.Expand([]string{"."})
	if err != nil {
		return nil, err
	}
	trackedSet := make(map[string]struct{}, len(tracked))
	for _, p := range tracked {
		trackedSet[p] = struct{}{}
	}
	for _, rel := range onDisk {
		if _, ok := trackedSet[rel]; ok {
			continue
		}
		if _, ok := targetTree[rel]; ok {
			conflicts = append(conflicts, rel)
		}
	}

	sort.Strings(conflicts)
	return conflicts, nil
}

// retargetTracked replaces the tracked set with the target tree's paths.
func retargetTracked(st *store.Store, tracked []string, targetTree objectstore.Tree) error {
	inTarget := make(map[string]struct{}, len(targetTree))
	var add []string
	for path := range targetTree {
		inTarget[path] = struct{}{}
	}

	var drop []string
	for _, rel := range tracked {
		if _, ok := inTarget[rel]; !ok {
			drop = append(drop, rel)
		}
	}
	trackedSet := make(map[string]struct{}, len(tracked))
	for _, rel := range tracked {
		trackedSet[rel] = struct{}{}
	}
	for path := range targetTree {
		if _, ok := trackedSet[path]; !ok {
			add = append(add, path)
		}
	}

	if len(drop) > 0 {
		if err := st.RemoveTracked(drop); err != nil {
			return err
		}
	}
	if len(add) > 0 {
		if err := st.AddTracked(add); err != nil {
			return err
		}
	}
	return nil
}
