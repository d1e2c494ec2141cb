package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/client/storage/boltdb"
	"github.com/iudanet/bakesync/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "rec.db"))
	require.NoError(t, err)
	defer store.Close()

	rec, err := New(ctx, store, "dev-a", testLogger(), WithClock(fixedClock(100)))
	require.NoError(t, err)
	assert.Equal(t, "dev-a", rec.DeviceID())

	payload := json.RawMessage(`{"id":"R1","name":"Rye"}`)
	op1, err := rec.Record(ctx, models.EntityRecipe, "R1", models.VerbCreate, payload, nil)
	require.NoError(t, err)
	op2, err := rec.Record(ctx, models.EntityRecipe, "R1", models.VerbDelete, payload, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, op1.OpID)
	assert.NotEqual(t, op1.OpID, op2.OpID)
	assert.Equal(t, int64(1), op1.Seq)
	assert.Equal(t, int64(2), op2.Seq)
	assert.Equal(t, "dev-a", op1.DeviceID)
	assert.Equal(t, time.Unix(100, 0).UTC(), op1.WallClock)
	assert.JSONEq(t, string(payload), string(op1.Payload))
	assert.Empty(t, op2.Payload, "delete carries no payload")

	// Payload скопирован
	payload[2] = 'X'
	assert.JSONEq(t, `{"id":"R1","name":"Rye"}`, string(op1.Payload))

	ops, err := store.ListOperations(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, op1.OpID, ops[0].OpID)
	assert.Equal(t, op2.OpID, ops[1].OpID)
}

func TestRecorder_RestoresSeqAfterRestart(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "rec.db")

	store, err := boltdb.New(ctx, dbPath)
	require.NoError(t, err)
	rec, err := New(ctx, store, "dev-a", testLogger())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := rec.Record(ctx, models.EntityCustomer, "C1", models.VerbUpdate, json.RawMessage(`{"id":"C1"}`), nil)
		require.NoError(t, err)
	}
	require.NoError(t, store.Close())

	store, err = boltdb.New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	rec, err = New(ctx, store, "dev-a", testLogger())
	require.NoError(t, err)
	op, err := rec.Record(ctx, models.EntityCustomer, "C1", models.VerbUpdate, json.RawMessage(`{"id":"C1"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), op.Seq)
}

func TestRecorder_SeqFromOutboxWhenCounterBehind(t *testing.T) {
	ctx := context.Background()
	mock := &storage.OutboxStorageMock{
		LastSeqFunc: func(ctx context.Context) (int64, error) {
			return 2, nil
		},
		ListOperationsFunc: func(ctx context.Context) ([]models.Operation, error) {
			return []models.Operation{
				{OpID: "x", DeviceID: "dev-a", Seq: 9},
				{OpID: "y", DeviceID: "dev-other", Seq: 50},
			}, nil
		},
		AppendOperationsFunc: func(ctx context.Context, ops []models.Operation) error {
			return nil
		},
	}

	rec, err := New(ctx, mock, "dev-a", testLogger())
	require.NoError(t, err)

	op := rec.Prepare(models.EntityOrder, "O1", models.VerbDelete, nil)
	assert.Equal(t, int64(10), op.Seq)
}

func TestRecorder_NewFailsWhenStoreUnavailable(t *testing.T) {
	mock := &storage.OutboxStorageMock{
		LastSeqFunc: func(ctx context.Context) (int64, error) {
			return 0, storage.ErrStorageClosed
		},
	}

	_, err := New(context.Background(), mock, "dev-a", testLogger())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestRecorder_KeepsOperationsInMemoryOnFailure(t *testing.T) {
	ctx := context.Background()

	var persisted []models.Operation
	fail := true
	mock := &storage.OutboxStorageMock{
		LastSeqFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		ListOperationsFunc: func(ctx context.Context) ([]models.Operation, error) {
			return append([]models.Operation(nil), persisted...), nil
		},
		AppendOperationsFunc: func(ctx context.Context, ops []models.Operation) error {
			if fail {
				return storage.ErrQuotaExceeded
			}
			persisted = append(persisted, ops...)
			return nil
		},
	}

	rec, err := New(ctx, mock, "dev-a", testLogger())
	require.NoError(t, err)

	// Record не возвращает ошибку даже при сбое хранилища
	op1, err := rec.Record(ctx, models.EntityRecipe, "R1", models.VerbCreate, json.RawMessage(`{"id":"R1"}`), nil)
	require.NoError(t, err)
	op2, err := rec.Record(ctx, models.EntityRecipe, "R2", models.VerbCreate, json.RawMessage(`{"id":"R2"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Unflushed())
	assert.Empty(t, persisted)

	held := rec.Unpersisted()
	require.Len(t, held, 2)
	held[0].OpID = "changed"
	assert.Equal(t, op1.OpID, rec.Unpersisted()[0].OpID, "copy returned")

	pending, err := rec.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, op1.OpID, pending[0].OpID)

	err = rec.Flush(ctx)
	assert.True(t, errors.Is(err, storage.ErrQuotaExceeded))

	// Хранилище восстановилось: следующий Flush сохраняет все по порядку
	fail = false
	require.NoError(t, rec.Flush(ctx))
	assert.Equal(t, 0, rec.Unflushed())
	require.Len(t, persisted, 2)
	assert.Equal(t, op1.OpID, persisted[0].OpID)
	assert.Equal(t, op2.OpID, persisted[1].OpID)

	assert.Nil(t, rec.Unpersisted())

	// Flush без отложенных операций ничего не пишет
	calls := len(mock.AppendOperationsCalls())
	require.NoError(t, rec.Flush(ctx))
	assert.Len(t, mock.AppendOperationsCalls(), calls)
}

func TestRecorder_RecordSkipsFailedApply(t *testing.T) {
	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "rec.db"))
	require.NoError(t, err)
	defer store.Close()

	rec, err := New(ctx, store, "dev-a", testLogger(), WithClock(fixedClock(100)))
	require.NoError(t, err)

	var applied models.Operation
	op, err := rec.Record(ctx, models.EntityRecipe, "R1", models.VerbCreate, json.RawMessage(`{"id":"R1"}`), func(op models.Operation) error {
		applied = op
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, op.OpID, applied.OpID, "apply sees the stamped operation")

	_, err = rec.Record(ctx, models.EntityRecipe, "R2", models.VerbCreate, json.RawMessage(`{"id":"R2"}`), func(models.Operation) error {
		return storage.ErrQuotaExceeded
	})
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)

	ops, err := store.ListOperations(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1, "failed mutation is not recorded")
	assert.Equal(t, op.OpID, ops[0].OpID)
	assert.Equal(t, 0, rec.Unflushed())
}
