// Package auth keeps the bearer token of the signed-in account and supplies
// it to the sync engine.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/bakesync/internal/client/remote"
	"github.com/iudanet/bakesync/internal/client/storage"
)

// ErrNotAuthenticated is returned when no token is stored or configured
var ErrNotAuthenticated = errors.New("not authenticated")

// Prompter asks the user for a new token. ReadPassword does not echo input.
type Prompter interface {
	ReadPassword(prompt string) (string, error)
}

// tokenClaims - поля токена, которые нужны клиенту
type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseToken extracts the account id and expiry from a bearer token. The
// signature is not checked here: only the backend holds the secret.
func ParseToken(token string) (*storage.AuthData, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token is empty")
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user_id claim")
	}

	auth := &storage.AuthData{AccountID: claims.UserID, AccessToken: token}
	if claims.ExpiresAt != nil {
		auth.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return auth, nil
}

// Session implements remote.TokenSource over the stored session. Refresh
// asks the user for a new token when a prompter is available; otherwise the
// sync engine reports that re-authentication is required.
type Session struct {
	store    storage.AuthStorage
	prompt   Prompter
	logger   *slog.Logger
	now      func() time.Time
	current  *storage.AuthData
	fallback string // токен из конфигурации или окружения
	mu       sync.Mutex
}

var _ remote.TokenSource = (*Session)(nil)

// NewSession creates a session. fallback is used when nothing is stored;
// prompt may be nil for non-interactive runs.
func NewSession(store storage.AuthStorage, fallback string, prompt Prompter, logger *slog.Logger) *Session {
	return &Session{
		store:    store,
		prompt:   prompt,
		logger:   logger,
		now:      time.Now,
		fallback: strings.TrimSpace(fallback),
	}
}

// Login validates and stores token as the current session
func (s *Session) Login(ctx context.Context, token string) (*storage.AuthData, error) {
	auth, err := ParseToken(token)
	if err != nil {
		return nil, err
	}
	if auth.ExpiresAt > 0 && s.now().Unix() >= auth.ExpiresAt {
		return nil, errors.New("token has already expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.store.GetAuth(ctx)
	if err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if prev != nil && prev.AccountID != auth.AccountID {
		// документ другого аккаунта нельзя сливать с локальными данными
		return nil, fmt.Errorf("token belongs to account %s, signed in as %s", auth.AccountID, prev.AccountID)
	}
	if err := s.store.SaveAuth(ctx, auth); err != nil {
		return nil, err
	}
	s.current = auth
	s.logger.Info("Session saved", "account_id", auth.AccountID)
	return auth, nil
}

// Logout forgets the stored session
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteAuth(ctx); err != nil {
		return err
	}
	s.current = nil
	s.fallback = ""
	return nil
}

// Current returns the active session
func (s *Session) Current(ctx context.Context) (*storage.AuthData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load возвращает сессию: кэш, затем хранилище, затем fallback. Caller holds s.mu.
func (s *Session) load(ctx context.Context) (*storage.AuthData, error) {
	if s.current != nil {
		return s.current, nil
	}

	auth, err := s.store.GetAuth(ctx)
	if err == nil {
		s.current = auth
		return auth, nil
	}
	if !errors.Is(err, storage.ErrAuthNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if s.fallback == "" {
		return nil, ErrNotAuthenticated
	}
	auth, err = ParseToken(s.fallback)
	if err != nil {
		return nil, fmt.Errorf("configured token: %w", err)
	}
	s.current = auth
	return auth, nil
}

// Expired reports whether auth is known to be expired at now
func Expired(auth *storage.AuthData, now time.Time) bool {
	return auth.ExpiresAt > 0 && now.Unix() >= auth.ExpiresAt
}

// Token returns the current bearer token
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auth, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	return auth.AccessToken, nil
}

// Refresh asks for a new token after the backend rejected the current one
func (s *Session) Refresh(ctx context.Context) (string, error) {
	if s.prompt == nil {
		return "", fmt.Errorf("%w: run 'bakesync login'", ErrNotAuthenticated)
	}

	token, err := s.prompt.ReadPassword("Session expired. Paste a new access token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	auth, err := s.Login(ctx, token)
	if err != nil {
		return "", err
	}
	return auth.AccessToken, nil
}

// AccountID returns the account of the current session
func (s *Session) AccountID(ctx context.Context) (string, error) {
	auth, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return auth.AccountID, nil
}
