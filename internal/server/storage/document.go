package storage

import (
	"context"
	"time"
)

// Document is the single opaque snapshot document of an account.
type Document struct {
	UpdatedAt       time.Time
	AccountID       string
	ETag            string
	Body            []byte
	SnapshotVersion int64 // as reported by the writer, 0 when unknown
	Revision        int64 // server-side write counter
}

// DocumentStorage defines interface for snapshot document persistence
type DocumentStorage interface {
	// GetDocument returns the account document
	// Returns ErrDocumentNotFound if the account never wrote one
	GetDocument(ctx context.Context, accountID string) (*Document, error)

	// PutDocument replaces the account document if its current ETag equals
	// expectedETag. An empty expectedETag means the document must not exist.
	// Returns ErrPreconditionFailed otherwise.
	PutDocument(ctx context.Context, doc *Document, expectedETag string) (*Document, error)
}
