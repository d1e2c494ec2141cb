// Package memstore implements remote.Store as an in-memory versioned
// document. It backs multi-device tests and the offline demo mode.
package memstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/iudanet/bakesync/internal/client/remote"
	"github.com/iudanet/bakesync/internal/models"
	"github.com/iudanet/bakesync/pkg/api"
)

// Store хранит документ в сериализованном виде, как это делает бэкенд
type Store struct {
	pullErr    error
	pushErr    error
	beforePush func()
	body       []byte
	token      string
	counter    int64
	pulls      int
	pushes     int
	mu         sync.Mutex
}

var _ remote.Store = (*Store)(nil)

// New создает пустой store (документ еще не существует)
func New() *Store {
	return &Store{}
}

// Pull returns a decoded copy of the current document.
func (s *Store) Pull(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrNetwork, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pulls++
	if err := s.pullErr; err != nil {
		return nil, err
	}
	if s.body == nil {
		return models.NewSnapshot(), nil
	}

	snap, err := api.DecodeDocument(s.body)
	if err != nil {
		return nil, &remote.CorruptSnapshotError{Err: err, VersionToken: s.token}
	}
	snap.VersionToken = s.token
	return snap, nil
}

// Push stores snap if expectedToken matches the current token.
func (s *Store) Push(ctx context.Context, snap *models.Snapshot, expectedToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", remote.ErrNetwork, err)
	}

	s.mu.Lock()
	hook := s.beforePush
	s.beforePush = nil
	s.mu.Unlock()

	// хук выполняется без блокировки, чтобы он мог сам писать в store
	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushes++
	if err := s.pushErr; err != nil {
		return "", err
	}
	if expectedToken != s.token {
		return "", fmt.Errorf("%w: expected %q, current %q", remote.ErrConflict, expectedToken, s.token)
	}

	body, err := api.EncodeDocument(snap)
	if err != nil {
		return "", err
	}
	s.setBody(body)
	return s.token, nil
}

func (s *Store) setBody(body []byte) {
	s.counter++
	s.body = body
	s.token = "v" + strconv.FormatInt(s.counter, 10)
}

// SetRaw replaces the stored document with an arbitrary body, bypassing
// validation, and returns the new token.
func (s *Store) SetRaw(body []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setBody(body)
	return s.token
}

// Raw returns the stored document body.
func (s *Store) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.body...)
}

// Token returns the current version token ("" while the document is absent).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// FailPull makes every Pull return err until cleared with nil.
func (s *Store) FailPull(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pullErr = err
}

// FailPush makes every Push return err until cleared with nil.
func (s *Store) FailPush(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushErr = err
}

// BeforeNextPush runs fn once, right before the next Push checks the token.
// Tests use it to simulate another device writing during the network window.
func (s *Store) BeforeNextPush(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforePush = fn
}

// Stats returns the number of Pull and Push calls.
func (s *Store) Stats() (pulls, pushes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulls, s.pushes
}
