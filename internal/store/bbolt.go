// Package store provides bbolt-based persistence for mnemo's mutable state:
// branch pointers, the active branch, HEAD, the tracked file set and the
// jump log. Everything immutable lives in the object store; everything here
// is a pointer into it.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names.
var (
	bucketBranches = []byte("branches")
	bucketTracked  = []byte("tracked_files")
	bucketJumps    = []byte("jumps")
	bucketCounters = []byte("counters")
	bucketKV       = []byte("kv")
)

const (
	keyHead         = "HEAD"
	keyActiveBranch = "ACTIVE_BRANCH"
)

// Store represents the bbolt database store.
type Store struct {
	db *bolt.DB
}

// New opens or creates a bbolt database at the given path.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize creates all required buckets.
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketBranches,
			bucketTracked,
			bucketJumps,
			bucketCounters,
			bucketKV,
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// GetValue gets a value from the key-value bucket.
func (s *Store) GetValue(key string) (string, error) {
	var val string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v != nil {
			val = string(v)
		}
		return nil
	})
	return val, err
}

// SetValue sets a value in the key-value bucket.
func (s *Store) SetValue(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return fmt.Errorf("kv bucket not found")
		}
		return b.Put([]byte(key), []byte(value))
	})
}

// GetHEAD returns the current HEAD commit id ("" before the first commit).
func (s *Store) GetHEAD() (string, error) {
	return s.GetValue(keyHead)
}

// SetHEAD sets the current HEAD commit id.
func (s *Store) SetHEAD(commitID string) error {
	return s.SetValue(keyHead, commitID)
}
