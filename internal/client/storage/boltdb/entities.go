package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

// GetRecord retrieves an entity record by type and ID
func (s *Storage) GetRecord(ctx context.Context, t models.EntityType, id string) (*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var rec *models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(t))
		if bucket == nil {
			return fmt.Errorf("unknown collection %q", t)
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrEntryNotFound
		}

		rec = &models.Record{}
		if err := json.Unmarshal(data, rec); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ListRecords returns all records of a collection (including tombstones)
func (s *Storage) ListRecords(ctx context.Context, t models.EntityType) (map[string]*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	records := make(map[string]*models.Record)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(t))
		if bucket == nil {
			return fmt.Errorf("unknown collection %q", t)
		}

		return bucket.ForEach(func(k, v []byte) error {
			var rec models.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", k, err)
			}
			records[string(k)] = &rec
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t, err)
	}

	return records, nil
}

// PutRecord stores a record produced by a local mutation
func (s *Storage) PutRecord(ctx context.Context, t models.EntityType, id string, rec *models.Record) error {
	// Сериализуем запись в JSON
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(t))
		if bucket == nil {
			return fmt.Errorf("unknown collection %q", t)
		}
		if err := s.checkQuota(tx, len(data)); err != nil {
			return err
		}

		if err := bucket.Put([]byte(id), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("put %s/%s: %w", t, id, err)
	}

	return nil
}

// writeCollection заменяет содержимое коллекции целиком.
func writeCollection(tx *bbolt.Tx, t models.EntityType, records map[string]*models.Record) error {
	name := entityBucket(t)
	if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
		return fmt.Errorf("failed to delete bucket: %w", err)
	}
	bucket, err := tx.CreateBucket(name)
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	for id, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record %s: %w", id, err)
		}
		if err := bucket.Put([]byte(id), data); err != nil {
			return fmt.Errorf("failed to save record %s: %w", id, err)
		}
	}

	return nil
}
