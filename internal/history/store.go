// Package history persists analysis results in an embedded bbolt database
// so runs over the same size plan can be compared later.
//
// Records live in the "runs" bucket under a key that sorts by creation time.
// The "ids" bucket maps a record ID to that key.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/complexity"
	"github.com/agbru/bigocalc/internal/orchestration"
	"github.com/agbru/bigocalc/internal/sizes"
)

var (
	bucketRuns = []byte("runs")
	bucketIDs  = []byte("ids")
)

// ErrNotFound is returned by Get for an unknown ID.
var ErrNotFound = errors.New("history: record not found")

// Record is one stored analysis.
type Record struct {
	ID         string            `json:"id"`
	Candidate  string            `json:"candidate"`
	Expected   string            `json:"expected,omitempty"`
	Mode       bench.Mode        `json:"mode"`
	Plan       string            `json:"plan"`
	Sizes      []int             `json:"sizes"`
	PlanHash   uint64            `json:"planHash"`
	Iterations int               `json:"iterations"`
	Result     complexity.Result `json:"result"`
	DurationMs float64           `json:"durationMs"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewRecord builds a record for a successful analysis. The ID and creation
// time are assigned by Save when empty.
func NewRecord(r orchestration.AnalysisResult, mode bench.Mode, plan sizes.Plan, iterations int) Record {
	return Record{
		Candidate:  r.Name,
		Expected:   r.Expected,
		Mode:       mode,
		Plan:       plan.String(),
		Sizes:      plan.Sizes(),
		PlanHash:   plan.Fingerprint(),
		Iterations: iterations,
		Result:     r.Result,
		DurationMs: float64(r.Duration) / float64(time.Millisecond),
	}
}

// Query filters List results. Zero fields match everything.
type Query struct {
	Candidate string
	PlanHash  uint64
	// Limit caps the number of records; non-positive means no limit.
	Limit int
}

func (q Query) matches(r Record) bool {
	return (q.Candidate == "" || r.Candidate == q.Candidate) &&
		(q.PlanHash == 0 || r.PlanHash == q.PlanHash)
}

// Store is a bbolt-backed history. It is safe for concurrent use.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("history open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketIDs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history init: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores r and returns it with its ID and creation time set.
func (s *Store) Save(r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record: %w", err)
	}

	key := runKey(r.CreatedAt, r.ID)
	err = s.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(bucketIDs)
		if ids.Get([]byte(r.ID)) != nil {
			return fmt.Errorf("history: duplicate id %s", r.ID)
		}
		if err := tx.Bucket(bucketRuns).Put(key, data); err != nil {
			return err
		}
		return ids.Put([]byte(r.ID), key)
	})
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (Record, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketIDs).Get([]byte(id))
		if key == nil {
			return ErrNotFound
		}
		// Copy out; bbolt slices are only valid inside the transaction.
		data = append([]byte(nil), tx.Bucket(bucketRuns).Get(key)...)
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return r, nil
}

// List returns up to limit records, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	return s.Find(Query{Limit: limit})
}

// Find returns the records matching q, newest first.
func (s *Store) Find(q Query) ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal record: %w", err)
			}
			if !q.matches(r) {
				continue
			}
			out = append(out, r)
			if q.Limit > 0 && len(out) >= q.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// Delete removes a record. Deleting an unknown ID returns ErrNotFound.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(bucketIDs)
		key := ids.Get([]byte(id))
		if key == nil {
			return ErrNotFound
		}
		if err := tx.Bucket(bucketRuns).Delete(key); err != nil {
			return err
		}
		return ids.Delete([]byte(id))
	})
}

// runKey orders records by creation time; the ID breaks ties.
func runKey(t time.Time, id string) []byte {
	key := make([]byte, 8, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	return append(key, id...)
}
