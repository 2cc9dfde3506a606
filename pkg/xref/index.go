package xref

import (
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Index stores targets by name. Adding a target replaces any target with the
// same name.
type Index interface {
	Add(targets ...Target) error
	Lookup(name string) (Target, bool, error)
}

// MemIndex is an Index in memory.
type MemIndex map[string]Target

var _ Index = MemIndex(nil)

func (m MemIndex) Add(targets ...Target) error {
	for _, t := range targets {
		m[t.Name] = t
	}
	return nil
}

func (m MemIndex) Lookup(name string) (Target, bool, error) {
	t, ok := m[name]
	return t, ok, nil
}

// Targets returns all targets, sorted by name.
func (m MemIndex) Targets() []Target {
	targets := make([]Target, 0, len(m))
	for _, t := range m {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets
}

const bucketTargets = "targets"

// BoltIndex is an Index persisted in a bbolt database. Targets are stored as
// JSON in the "targets" bucket, keyed by name.
type BoltIndex struct {
	db *bolt.DB
}

var _ Index = (*BoltIndex)(nil)

// OpenBolt opens the database at path, creating it if needed.
func OpenBolt(path string) (*BoltIndex, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTargets))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltIndex{db}, nil
}

// Close closes the database.
func (ix *BoltIndex) Close() error { return ix.db.Close() }

func (ix *BoltIndex) Add(targets ...Target) error {
	return ix.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketTargets))
		for _, t := range targets {
			v, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(t.Name), v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (ix *BoltIndex) Lookup(name string) (Target, bool, error) {
	var (
		t     Target
		found bool
	)
	err := ix.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketTargets)).Get([]byte(name))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &t)
	})
	return t, found, err
}

// Targets returns all targets, sorted by name.
func (ix *BoltIndex) Targets() ([]Target, error) {
	var targets []Target
	err := ix.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketTargets)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var t Target
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			targets = append(targets, t)
		}
		return nil
	})
	return targets, err
}
