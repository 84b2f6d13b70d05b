package core

import (
	"fmt"
	"time"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/store"
)

// BranchInfo pairs a branch with whether it is active.
type BranchInfo struct {
	*models.Branch
	Active bool
}

// ListBranches returns every branch, active one marked.
func ListBranches(st *store.Store) ([]*BranchInfo, error) {
	branches, err := st.ListBranches()
	if err != nil {
		return nil, err
	}
	active, err := st.GetActiveBranch()
	if err != nil {
		return nil, err
	}

	out := make([]*BranchInfo, 0, len(branches))
	for _, b := range branches {
		out = append(out, &BranchInfo{Branch: b, Active: b.Name == active})
	}
	return out, nil
}

// CreateBranch creates a branch at the given ref (default: current head)
// without switching to it.
func CreateBranch(st *store.Store, obj objectstore.Store, name, ref string) (*models.Branch, error) {
	exists, err := st.BranchExists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("branch already exists: %s", name)
	}

	var target string
	if ref == "" {
		target, err = st.GetHEAD()
		if err != nil {
			return nil, err
		}
	} else {
		target, err = obj.ResolveCommit(ref)
		if err != nil {
			return nil, err
		}
	}

	if err := st.CreateBranch(name, target, target); err != nil {
		return nil, err
	}
	_ = obj.CreateBranch(name, target)

	return &models.Branch{Name: name, CommitID: target, CreatedFrom: target, CreatedAt: time.Now()}, nil
}

// SwitchBranch makes an existing branch active and restores its head tree to
// the working directory. Uncommitted changes block the switch unless
// discarded, same as jump.
func SwitchBranch(cfg *config.Config, st *store.Store, obj objectstore.Store, name string, opts JumpOptions) error {
	branch, err := st.GetBranch(name)
	if err != nil {
		return err
	}
	if branch == nil {
		return fmt.Errorf("branch not found: %s", name)
	}

	targetTree, _, _, err := obj.GetCommit(branch.CommitID)
	if err != nil {
		return err
	}

	r, err := newResolver(cfg, obj)
	if err != nil {
		return err
	}
	tracked, err := st.ListTracked()
	if err != nil {
		return err
	}
	tree, _, err := headTree(st, obj)
	if err != nil {
		return err
	}

	if !opts.Discard {
		conflicts, err := jumpConflicts(r, tracked, tree, targetTree)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &DirtyWorkingTreeError{Paths: conflicts}
		}
	}

	if err := obj.Checkout(branch.CommitID, cfg.ProjectPath()); err != nil {
		return fmt.Errorf("restore working tree: %w", err)
	}
	for _, rel := range tracked {
		if _, ok := targetTree[rel]; !ok {
			if err := removeIfPresent(r.Abs(rel)); err != nil {
				return fmt.Errorf("remove %s: %w", rel, err)
			}
		}
	}

	if err := st.SwitchTo(branch); err != nil {
		return err
	}
	return retargetTracked(st, tracked, targetTree)
}

// DeleteBranch removes a branch pointer. The active branch cannot be
// deleted; commits stay in the object store regardless.
func DeleteBranch(st *store.Store, obj objectstore.Store, name string) error {
	active, err := st.GetActiveBranch()
	if err != nil {
		return err
	}
	if name == active {
		return fmt.Errorf("cannot delete the active branch: %s", name)
	}

	if err := st.DeleteBranch(name); err != nil {
		return err
	}
	_ = obj.DeleteBranch(name)
	return nil
}
