package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/bakesync/internal/models"
)

func TestDeviceID_StableAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "device.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	id, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	again, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	require.NoError(t, store.Close())

	// После перезапуска идентификатор тот же
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	reopened, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, reopened)
}

func TestSaveAndGetSyncState(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Изначально состояние пустое
	state, err := store.GetSyncState(ctx)
	require.NoError(t, err)
	assert.True(t, state.LastSyncedAt.IsZero())
	assert.Equal(t, int64(0), state.LastMergedVersion)

	expected := &models.SyncState{
		LastSyncedAt:        time.Unix(1234567890, 0).UTC(),
		LastMergedVersion:   7,
		PendingOpCount:      2,
		LastError:           "network unavailable",
		ConsecutiveFailures: 3,
	}
	require.NoError(t, store.SaveSyncState(ctx, expected))

	got, err := store.GetSyncState(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestGetSyncState_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Удаляем bucket metadata напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetSyncState(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "metadata bucket not found")

	err = store.SaveSyncState(ctx, &models.SyncState{})
	assert.Error(t, err)
}

func TestGetLastMerged_Empty(t *testing.T) {
	store := createTestStorage(t)

	snap, err := store.GetLastMerged(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.SnapshotVersion)
	assert.Equal(t, 0, snap.Live())
	assert.Len(t, snap.Entities, len(models.AllEntityTypes))
}
