package storage

import "errors"

// Common client storage errors
var (
	// ErrEntryNotFound indicates that entity record was not found
	ErrEntryNotFound = errors.New("entry not found")

	// ErrAuthNotFound indicates that no session is stored
	ErrAuthNotFound = errors.New("auth data not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrQuotaExceeded indicates that the local store ran out of space
	// (configured size limit or ENOSPC from the file system)
	ErrQuotaExceeded = errors.New("local storage quota exceeded")
)
