package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/bakesync/internal/server/storage"
)

// GetDocument returns the account document or storage.ErrDocumentNotFound
func (s *Storage) GetDocument(ctx context.Context, accountID string) (*storage.Document, error) {
	query := `
		SELECT account_id, body, etag, snapshot_version, revision, updated_at
		FROM documents
		WHERE account_id = ?
	`

	doc := &storage.Document{}
	var updatedAt int64

	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&doc.AccountID,
		&doc.Body,
		&doc.ETag,
		&doc.SnapshotVersion,
		&doc.Revision,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return doc, nil
}

// PutDocument writes doc if the stored ETag equals expectedETag.
// Empty expectedETag creates the document and fails if one already exists.
func (s *Storage) PutDocument(ctx context.Context, doc *storage.Document, expectedETag string) (*storage.Document, error) {
	now := time.Now().UnixNano()

	var (
		res sql.Result
		err error
	)
	if expectedETag == "" {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO documents (account_id, body, etag, snapshot_version, revision, created_at, updated_at)
			VALUES (?, ?, ?, ?, 1, ?, ?)
			ON CONFLICT(account_id) DO NOTHING
		`, doc.AccountID, doc.Body, doc.ETag, doc.SnapshotVersion, now, now)
	} else {
		// Сравнение и запись в одном UPDATE: конкурентный писатель получит 0 строк
		res, err = s.db.ExecContext(ctx, `
			UPDATE documents
			SET body = ?, etag = ?, snapshot_version = ?, revision = revision + 1, updated_at = ?
			WHERE account_id = ? AND etag = ?
		`, doc.Body, doc.ETag, doc.SnapshotVersion, now, doc.AccountID, expectedETag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrPreconditionFailed
	}

	return s.GetDocument(ctx, doc.AccountID)
}
