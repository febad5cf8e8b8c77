// Package audit persists the gateway's audit trail in a local bbolt database
// and exposes a fire-and-forget recorder for the request path.
package audit

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

var bucketEvents = []byte("events")

// Store is an append-only audit event log backed by bbolt. Keys are the
// bucket's monotonic sequence number in big-endian order, so a reverse cursor
// walk yields newest-first.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the audit database at path and ensures the events
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEvents)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Append writes one event to the log.
func (s *Store) Append(ev domain.AuditEvent) error {
	val, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEvents)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		return b.Put(key[:], val)
	})
}

// Recent returns up to n events, newest first.
func (s *Store) Recent(n int) ([]domain.AuditEvent, error) {
	if n <= 0 {
		return nil, nil
	}
	var out []domain.AuditEvent
	err := s.db.View(func(tx *bbolt.Tx) error {
		cur := tx.Bucket(bucketEvents).Cursor()
		for k, v := cur.Last(); k != nil && len(out) < n; k, v = cur.Prev() {
			var ev domain.AuditEvent
			if err := json.Unmarshal(v, &ev); err != nil {
				// skip undecodable rows rather than failing the listing
				continue
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Ping verifies the database is readable. Used by the health endpoint.
func (s *Store) Ping() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketEvents) == nil {
			return fmt.Errorf("events bucket missing")
		}
		return nil
	})
}
