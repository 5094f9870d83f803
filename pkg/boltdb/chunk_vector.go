package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"docindex/repository"

	bolt "go.etcd.io/bbolt"
)

var metaBucket = []byte("_collections")

var _ repository.ChunkVectorRepo = (*ChunkStore)(nil)

type collectionMeta struct {
	VectorSize int                 `json:"vector_size"`
	Distance   repository.Distance `json:"distance"`
}

// ChunkStore keeps chunk records in a local bbolt file, one bucket per
// collection. It is meant for offline runs and inspection, not search.
type ChunkStore struct {
	db *bolt.DB
}

func Open(path string) (*ChunkStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for BoltDB: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &ChunkStore{db: db}, nil
}

func (s *ChunkStore) RecreateCollection(_ context.Context, name string, vectorSize int, distance repository.Distance) error {
	if err := checkName(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(name)) != nil {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return fmt.Errorf("delete collection %s: %w", name, err)
			}
		}
		return createCollection(tx, name, vectorSize, distance)
	})
}

func (s *ChunkStore) EnsureCollection(_ context.Context, name string, vectorSize int, distance repository.Distance) error {
	if err := checkName(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(name)) != nil {
			return nil
		}
		return createCollection(tx, name, vectorSize, distance)
	})
}

func checkName(name string) error {
	if name == "" || name == string(metaBucket) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}

func createCollection(tx *bolt.Tx, name string, vectorSize int, distance repository.Distance) error {
	if _, err := tx.CreateBucket([]byte(name)); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	meta, err := json.Marshal(collectionMeta{VectorSize: vectorSize, Distance: distance})
	if err != nil {
		return err
	}
	return tx.Bucket(metaBucket).Put([]byte(name), meta)
}

func (s *ChunkStore) Upsert(_ context.Context, collection string, records []repository.ChunkRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return fmt.Errorf("collection %s does not exist", collection)
		}
		meta, err := readMeta(tx, collection)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if len(rec.Vector) != meta.VectorSize {
				return fmt.Errorf("record %d: vector has %d dimensions, collection %s expects %d",
					rec.ID, len(rec.Vector), collection, meta.VectorSize)
			}
			v, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode record %d: %w", rec.ID, err)
			}
			if err := b.Put(idKey(rec.ID), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Records returns every record of a collection in id order.
func (s *ChunkStore) Records(collection string) ([]repository.ChunkRecord, error) {
	var records []repository.ChunkRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return fmt.Errorf("collection %s does not exist", collection)
		}
		return b.ForEach(func(_, v []byte) error {
			var rec repository.ChunkRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

func readMeta(tx *bolt.Tx, collection string) (collectionMeta, error) {
	var meta collectionMeta
	raw := tx.Bucket(metaBucket).Get([]byte(collection))
	if raw == nil {
		return meta, fmt.Errorf("collection %s has no metadata", collection)
	}
	err := json.Unmarshal(raw, &meta)
	return meta, err
}

func idKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

func (s *ChunkStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
