package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

const (
	keyDeviceID   = "device_id"
	keySyncState  = "sync_state"
	keyLastMerged = "last_merged"
)

// storedSnapshot is the on-disk form of the last merged snapshot.
type storedSnapshot struct {
	Entities        map[models.EntityType]map[string]*models.Record `json:"entities"`
	VersionToken    string                                          `json:"versionToken,omitempty"`
	SnapshotVersion int64                                           `json:"snapshotVersion"`
}

// DeviceID returns the device id, generating one on first use
func (s *Storage) DeviceID(ctx context.Context) (string, error) {
	var id string

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if v := bucket.Get([]byte(keyDeviceID)); v != nil {
			id = string(v)
			return nil
		}

		// Первый запуск - генерируем идентификатор устройства
		id = uuid.New().String()
		return bucket.Put([]byte(keyDeviceID), []byte(id))
	})

	if err != nil {
		return "", fmt.Errorf("failed to get device id: %w", err)
	}

	return id, nil
}

// GetSyncState retrieves the sync state
// Returns zero state if no sync has been performed yet
func (s *Storage) GetSyncState(ctx context.Context) (*models.SyncState, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	state := &models.SyncState{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(keySyncState))
		if data == nil {
			return nil
		}

		return json.Unmarshal(data, state)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	return state, nil
}

// SaveSyncState saves the sync state
func (s *Storage) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	err := s.update(func(tx *bbolt.Tx) error {
		return putSyncState(tx, state)
	})
	if err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

func putSyncState(tx *bbolt.Tx, state *models.SyncState) error {
	bucket := tx.Bucket(bucketMetadata)
	if bucket == nil {
		return fmt.Errorf("metadata bucket not found")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}

	return bucket.Put([]byte(keySyncState), data)
}

// GetLastMerged returns the last merged snapshot
// Returns an empty snapshot before the first sync
func (s *Storage) GetLastMerged(ctx context.Context) (*models.Snapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	snap := models.NewSnapshot()

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(keyLastMerged))
		if data == nil {
			return nil
		}

		var stored storedSnapshot
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}

		snap.SnapshotVersion = stored.SnapshotVersion
		snap.VersionToken = stored.VersionToken
		for t, coll := range stored.Entities {
			for id, rec := range coll {
				snap.Put(t, id, rec)
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get last merged snapshot: %w", err)
	}

	return snap, nil
}

func putLastMerged(tx *bbolt.Tx, snap *models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(storedSnapshot{
		Entities:        snap.Entities,
		VersionToken:    snap.VersionToken,
		SnapshotVersion: snap.SnapshotVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	bucket := tx.Bucket(bucketMetadata)
	if bucket == nil {
		return nil, fmt.Errorf("metadata bucket not found")
	}

	return data, bucket.Put([]byte(keyLastMerged), data)
}
