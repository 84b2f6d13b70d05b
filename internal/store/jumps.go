package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kvassbo/mnemo/internal/models"
)

// AppendJump records a jump in the exploration log with an auto-incrementing
// id.
func (s *Store) AppendJump(rec *models.JumpRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketJumps)
		if bucket == nil {
			return fmt.Errorf("jumps bucket not found")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("jump sequence: %w", err)
		}
		rec.ID = int64(seq)
		if rec.Timestamp.IsZero() {
			rec.Timestamp = time.Now()
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal jump record: %w", err)
		}

		key := []byte(fmt.Sprintf("%08d", rec.ID))
		return bucket.Put(key, data)
	})
}

// ListJumps returns the exploration log in chronological order.
func (s *Store) ListJumps() ([]*models.JumpRecord, error) {
	var records []*models.JumpRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketJumps)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var rec models.JumpRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal jump record: %w", err)
			}
			records = append(records, &rec)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}
