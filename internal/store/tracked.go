package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// The tracked bucket is the explicit "files under memory" set. It is
// working-tree-resident state: snapshots record it in their metadata, but
// the authoritative current set lives here and is mutated only by explicit
// track/untrack/rename/remove requests.

// AddTracked adds paths to the tracked file set.
func (s *Store) AddTracked(paths []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketTracked)
		if bucket == nil {
			return fmt.Errorf("tracked_files bucket not found")
		}
		for _, p := range paths {
			if err := bucket.Put([]byte(p), []byte{1}); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveTracked removes paths from the tracked file set.
func (s *Store) RemoveTracked(paths []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketTracked)
		if bucket == nil {
			return fmt.Errorf("tracked_files bucket not found")
		}
		for _, p := range paths {
			if err := bucket.Delete([]byte(p)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListTracked returns the tracked file set in key order.
func (s *Store) ListTracked() ([]string, error) {
	var paths []string

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketTracked)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			paths = append(paths, string(k))
			return nil
		})
	})

	if err != nil {
		return nil, err
	}
	return paths, nil
}

// IsTracked checks membership in the tracked file set.
func (s *Store) IsTracked(path string) (bool, error) {
	var tracked bool

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketTracked)
		if bucket == nil {
			return nil
		}
		tracked = bucket.Get([]byte(path)) != nil
		return nil
	})

	return tracked, err
}
