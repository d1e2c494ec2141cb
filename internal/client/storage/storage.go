package storage

import (
	"context"

	"github.com/iudanet/bakesync/internal/models"
)

// EntityStorage stores the per-entity collections shown to the application.
type EntityStorage interface {
	// GetRecord returns the record of (t, id), tombstones included.
	// Returns ErrEntryNotFound if the entity was never written
	GetRecord(ctx context.Context, t models.EntityType, id string) (*models.Record, error)

	// ListRecords returns every record of collection t, tombstones included
	ListRecords(ctx context.Context, t models.EntityType) (map[string]*models.Record, error)

	// PutRecord stores a record written by a local mutation
	PutRecord(ctx context.Context, t models.EntityType, id string, rec *models.Record) error
}

//go:generate moq -out outboxstorage_mock.go . OutboxStorage

// OutboxStorage stores operations not yet confirmed merged.
type OutboxStorage interface {
	// AppendOperations persists ops and raises the stored seq counter
	AppendOperations(ctx context.Context, ops []models.Operation) error

	// ListOperations returns the outbox in seq order
	ListOperations(ctx context.Context) ([]models.Operation, error)

	// CountOperations returns the outbox length
	CountOperations(ctx context.Context) (int, error)

	// LastSeq returns the highest seq ever persisted (0 for a new device)
	LastSeq(ctx context.Context) (int64, error)
}

// MetadataStorage stores sync bookkeeping.
type MetadataStorage interface {
	// DeviceID returns the device id, generating and persisting one on first use
	DeviceID(ctx context.Context) (string, error)

	// GetSyncState returns the stored sync state (zero value before the first sync)
	GetSyncState(ctx context.Context) (*models.SyncState, error)

	// SaveSyncState stores the sync state
	SaveSyncState(ctx context.Context, state *models.SyncState) error

	// GetLastMerged returns the last merged snapshot (empty before the first sync)
	GetLastMerged(ctx context.Context) (*models.Snapshot, error)
}

// CommitResult reports what a merge commit changed locally.
type CommitResult struct {
	Pruned    int // удалено операций из outbox
	Remaining int // операций, записанных во время сетевого окна (включая несохраненные)
}

// LocalStore is the complete local persistence used by the sync engine.
type LocalStore interface {
	EntityStorage
	OutboxStorage
	MetadataStorage

	// CommitMerge atomically saves merged as the last merged snapshot,
	// removes pruneOpIDs from the outbox and rebuilds every entity collection
	// as merged plus the replay of the remaining outbox operations and of
	// unpersisted, the operations the recorder still holds in memory.
	CommitMerge(ctx context.Context, merged *models.Snapshot, pruneOpIDs []string, unpersisted []models.Operation, state *models.SyncState) (*CommitResult, error)
}

// AuthData is the stored session of the signed-in account.
type AuthData struct {
	AccountID   string `json:"account_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds, 0 - неизвестно
}

// AuthStorage stores the session token.
type AuthStorage interface {
	// SaveAuth replaces the stored session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth returns the stored session or ErrAuthNotFound
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session (no error if there is none)
	DeleteAuth(ctx context.Context) error
}
