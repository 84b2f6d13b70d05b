package core

import (
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/store"
)

// History walks parent links from startRef, which may be a branch name or a
// commit id prefix (default: active head), and returns up to limit commits,
// most recent first. limit <= 0 means the full chain back to the root.
func History(st *store.Store, obj objectstore.Store, limit int, startRef string) ([]*models.Commit, error) {
	branch, err := st.GetActiveBranch()
	if err != nil {
		return nil, err
	}

	start := startRef
	if start == "" {
		start, err = st.GetHEAD()
		if err != nil {
			return nil, err
		}
		if start == "" {
			return nil, nil
		}
	} else if b, berr := st.GetBranch(start); berr == nil && b != nil {
		// a branch name walks from that branch's head
		start = b.CommitID
	} else {
		start, err = obj.ResolveCommit(start)
		if err != nil {
			return nil, err
		}
	}

	ids, err := obj.Ancestry(start, limit)
	if err != nil {
		return nil, err
	}

	commits := make([]*models.Commit, 0, len(ids))
	for _, id := range ids {
		c, err := loadCommit(obj, id, branch)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// Show resolves a ref and returns the commit with the file changes against
// its parent. A root commit's changes are the full tree as additions.
func Show(st *store.Store, obj objectstore.Store, ref string) (*models.Commit, []models.FileChange, error) {
	branch, err := st.GetActiveBranch()
	if err != nil {
		return nil, nil, err
	}

	id, err := obj.ResolveCommit(ref)
	if err != nil {
		return nil, nil, err
	}

	commit, err := loadCommit(obj, id, branch)
	if err != nil {
		return nil, nil, err
	}

	changes, err := obj.Diff(commit.ParentID, id)
	if err != nil {
		return nil, nil, err
	}
	return commit, changes, nil
}

// DiffCommits returns the file changes from ref a to ref b.
func DiffCommits(obj objectstore.Store, a, b string) ([]models.FileChange, error) {
	idA, err := obj.ResolveCommit(a)
	if err != nil {
		return nil, err
	}
	idB, err := obj.ResolveCommit(b)
	if err != nil {
		return nil, err
	}
	return obj.Diff(idA, idB)
}
