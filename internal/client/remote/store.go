// Package remote defines the contract of the passive, versioned remote
// document the sync engine reconciles against.
package remote

import (
	"context"

	"github.com/iudanet/bakesync/internal/models"
)

//go:generate moq -out store_mock.go . Store TokenSource

// Store is the get/put-with-version contract over the backend.
type Store interface {
	// Pull fetches the current snapshot with its VersionToken set.
	// A document that does not exist yet yields an empty snapshot with an
	// empty token.
	// Errors: ErrNetwork, ErrAuthExpired, *CorruptSnapshotError
	Pull(ctx context.Context) (*models.Snapshot, error)

	// Push writes snap if the remote token still equals expectedToken
	// (empty expectedToken means "create only if absent") and returns the new token.
	// Errors: ErrNetwork, ErrAuthExpired, ErrConflict
	Push(ctx context.Context, snap *models.Snapshot, expectedToken string) (string, error)
}

// TokenSource supplies credentials from the external auth context.
type TokenSource interface {
	// Token returns the current bearer token
	Token(ctx context.Context) (string, error)

	// Refresh obtains a new token after the backend rejected the current one
	Refresh(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource with a fixed token that cannot be refreshed.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// Refresh always fails: a fixed token cannot be renewed.
func (t StaticToken) Refresh(ctx context.Context) (string, error) {
	return "", ErrAuthExpired
}
