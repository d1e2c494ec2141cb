package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that the account has no document yet
	ErrDocumentNotFound = errors.New("document not found")

	// ErrPreconditionFailed indicates that the stored ETag does not match the
	// expected one (or a document exists when none was expected)
	ErrPreconditionFailed = errors.New("precondition failed")
)
