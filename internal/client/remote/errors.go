package remote

import (
	"errors"
	"fmt"
)

// Remote store errors
var (
	// ErrNetwork indicates a transient failure: transport error, timeout or 5xx
	ErrNetwork = errors.New("remote store unavailable")

	// ErrAuthExpired indicates that the backend rejected the credentials
	ErrAuthExpired = errors.New("remote credentials expired")

	// ErrConflict indicates that the version token is stale (another device wrote first)
	ErrConflict = errors.New("remote snapshot version conflict")
)

// CorruptSnapshotError is returned by Pull when the remote document fails
// schema validation or cannot be decrypted. VersionToken is the current
// token of the corrupt document so it can be overwritten by CAS.
type CorruptSnapshotError struct {
	Err          error
	VersionToken string
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("corrupt remote snapshot: %v", e.Err)
}

func (e *CorruptSnapshotError) Unwrap() error {
	return e.Err
}
