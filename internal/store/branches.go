package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kvassbo/mnemo/internal/models"
)

var counterJumpBranch = []byte("next_jump_branch")

// CreateBranch stores a new branch pointer.
func (s *Store) CreateBranch(name, commitID, createdFrom string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}

		if bucket.Get([]byte(name)) != nil {
			return fmt.Errorf("branch already exists: %s", name)
		}

		branch := &models.Branch{
			Name:        name,
			CommitID:    commitID,
			CreatedFrom: createdFrom,
			CreatedAt:   time.Now(),
		}

		data, err := json.Marshal(branch)
		if err != nil {
			return fmt.Errorf("marshal branch: %w", err)
		}

		return bucket.Put([]byte(name), data)
	})
}

// GetBranch retrieves a branch by name. Returns (nil, nil) if not found.
func (s *Store) GetBranch(name string) (*models.Branch, error) {
	var branch *models.Branch

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(name))
		if data == nil {
			return nil
		}

		branch = &models.Branch{}
		return json.Unmarshal(data, branch)
	})

	if err != nil {
		return nil, err
	}

	return branch, nil
}

// ListBranches returns all branches sorted by name.
func (s *Store) ListBranches() ([]*models.Branch, error) {
	var branches []*models.Branch

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var branch models.Branch
			if err := json.Unmarshal(v, &branch); err != nil {
				return fmt.Errorf("unmarshal branch: %w", err)
			}
			branches = append(branches, &branch)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})

	return branches, nil
}

// UpdateBranch moves an existing branch pointer to a new commit.
func (s *Store) UpdateBranch(name, commitID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}

		data := bucket.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("branch not found: %s", name)
		}

		var branch models.Branch
		if err := json.Unmarshal(data, &branch); err != nil {
			return fmt.Errorf("unmarshal branch: %w", err)
		}

		branch.CommitID = commitID

		updatedData, err := json.Marshal(branch)
		if err != nil {
			return fmt.Errorf("marshal branch: %w", err)
		}

		return bucket.Put([]byte(name), updatedData)
	})
}

// AdvanceHead moves the branch pointer and HEAD to commitID in a single
// transaction, so a crash never leaves them pointing at different commits.
func (s *Store) AdvanceHead(name, commitID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		kv := tx.Bucket(bucketKV)
		if bucket == nil || kv == nil {
			return fmt.Errorf("store not initialized")
		}

		data := bucket.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("branch not found: %s", name)
		}

		var branch models.Branch
		if err := json.Unmarshal(data, &branch); err != nil {
			return fmt.Errorf("unmarshal branch: %w", err)
		}
		branch.CommitID = commitID

		updatedData, err := json.Marshal(branch)
		if err != nil {
			return fmt.Errorf("marshal branch: %w", err)
		}
		if err := bucket.Put([]byte(name), updatedData); err != nil {
			return err
		}
		return kv.Put([]byte(keyHead), []byte(commitID))
	})
}

// SwitchTo creates the branch if it does not exist, makes it the active
// branch, and points HEAD at its commit, all in a single transaction.
func (s *Store) SwitchTo(branch *models.Branch) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		kv := tx.Bucket(bucketKV)
		if bucket == nil || kv == nil {
			return fmt.Errorf("store not initialized")
		}

		if bucket.Get([]byte(branch.Name)) == nil {
			data, err := json.Marshal(branch)
			if err != nil {
				return fmt.Errorf("marshal branch: %w", err)
			}
			if err := bucket.Put([]byte(branch.Name), data); err != nil {
				return err
			}
		}

		if err := kv.Put([]byte(keyActiveBranch), []byte(branch.Name)); err != nil {
			return err
		}
		return kv.Put([]byte(keyHead), []byte(branch.CommitID))
	})
}

// DeleteBranch removes a branch pointer. The commits it referenced are
// untouched.
func (s *Store) DeleteBranch(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return fmt.Errorf("branches bucket not found")
		}

		if bucket.Get([]byte(name)) == nil {
			return fmt.Errorf("branch not found: %s", name)
		}

		return bucket.Delete([]byte(name))
	})
}

// BranchExists checks if a branch with the given name exists.
func (s *Store) BranchExists(name string) (bool, error) {
	var exists bool

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBranches)
		if bucket == nil {
			return nil
		}
		exists = bucket.Get([]byte(name)) != nil
		return nil
	})

	return exists, err
}

// GetActiveBranch retrieves the active branch name ("" if unset).
func (s *Store) GetActiveBranch() (string, error) {
	return s.GetValue(keyActiveBranch)
}

// SetActiveBranch sets the active branch name.
func (s *Store) SetActiveBranch(name string) error {
	return s.SetValue(keyActiveBranch, name)
}

// NextJumpBranch reserves the next jump branch name. The counter only ever
// advances, so names are collision-free even after branch deletion.
func (s *Store) NextJumpBranch() (string, error) {
	var name string

	err := s.db.Update(func(tx *bolt.Tx) error {
		counters := tx.Bucket(bucketCounters)
		if counters == nil {
			return fmt.Errorf("counters bucket not found")
		}

		next := int64(1)
		if v := counters.Get(counterJumpBranch); v != nil {
			parsed, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return fmt.Errorf("parse jump counter: %w", err)
			}
			next = parsed
		}

		name = fmt.Sprintf("jump/%d", next)
		return counters.Put(counterJumpBranch, []byte(strconv.FormatInt(next+1, 10)))
	})

	if err != nil {
		return "", err
	}
	return name, nil
}
