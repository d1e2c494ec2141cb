// Package httpstore implements remote.Store over the HTTP document backend.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/bakesync/internal/client/remote"
	"github.com/iudanet/bakesync/internal/crypto"
	"github.com/iudanet/bakesync/internal/models"
	"github.com/iudanet/bakesync/pkg/api"
)

// DefaultTimeout ограничивает один запрос к бэкенду
const DefaultTimeout = 30 * time.Second

// maxDocumentSize ограничивает размер читаемого ответа (32 MiB)
const maxDocumentSize = 32 << 20

// Store представляет HTTP клиент удаленного документа аккаунта
type Store struct {
	httpClient *http.Client
	tokens     remote.TokenSource
	sealer     *crypto.SnapshotSealer
	baseURL    string
}

// Option настраивает Store
type Option func(*Store)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.httpClient = c
	}
}

// WithSealer enables client-side encryption of the document.
func WithSealer(sealer *crypto.SnapshotSealer) Option {
	return func(s *Store) {
		s.sealer = sealer
	}
}

// New создает новый HTTP store
func New(baseURL string, tokens remote.TokenSource, opts ...Option) *Store {
	s := &Store{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout:       DefaultTimeout,
			CheckRedirect: checkRedirect,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ remote.Store = (*Store)(nil)

// checkRedirect keeps the bearer token only on redirects to the same host
// and port as the original request.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("stopped after 10 redirects")
	}
	if len(via) == 0 {
		return nil
	}
	auth := via[0].Header.Get("Authorization")
	if auth != "" && req.URL.Host == via[0].URL.Host {
		req.Header.Set("Authorization", auth)
	} else {
		req.Header.Del("Authorization")
	}
	return nil
}

// Pull fetches the account document. A missing document is an empty
// snapshot with an empty version token.
func (s *Store) Pull(ctx context.Context) (*models.Snapshot, error) {
	resp, body, err := s.doRequest(ctx, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.NewSnapshot(), nil
	case resp.StatusCode != http.StatusOK:
		return nil, statusError(resp.StatusCode, body)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		return nil, fmt.Errorf("%w: response without ETag", remote.ErrNetwork)
	}

	plain, err := s.open(body)
	if err != nil {
		return nil, &remote.CorruptSnapshotError{Err: err, VersionToken: etag}
	}
	snap, err := api.DecodeDocument(plain)
	if err != nil {
		return nil, &remote.CorruptSnapshotError{Err: err, VersionToken: etag}
	}
	snap.VersionToken = etag
	return snap, nil
}

// Push writes snap with a conditional PUT and returns the new ETag.
func (s *Store) Push(ctx context.Context, snap *models.Snapshot, expectedToken string) (string, error) {
	doc, err := api.EncodeDocument(snap)
	if err != nil {
		return "", err
	}
	if s.sealer != nil {
		doc, err = s.sealer.Seal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt document: %w", err)
		}
	}

	headers := http.Header{}
	headers.Set(api.HeaderVersion, strconv.FormatInt(snap.SnapshotVersion, 10))
	if expectedToken == "" {
		headers.Set("If-None-Match", "*")
	} else {
		headers.Set("If-Match", expectedToken)
	}

	resp, body, err := s.doRequest(ctx, http.MethodPut, doc, headers)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", statusError(resp.StatusCode, body)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		return "", fmt.Errorf("%w: response without ETag", remote.ErrNetwork)
	}
	return etag, nil
}

func (s *Store) open(body []byte) ([]byte, error) {
	if !api.IsEnvelope(body) {
		return body, nil
	}
	if s.sealer == nil {
		return nil, errors.New("document is encrypted but no passphrase is configured")
	}
	return s.sealer.Open(body)
}

// doRequest выполняет HTTP запрос к документу аккаунта
func (s *Store) doRequest(ctx context.Context, method string, body []byte, headers http.Header) (*http.Response, []byte, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", remote.ErrAuthExpired, err)
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+api.SnapshotPath, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// таймауты и ошибки транспорта считаются временными
		return nil, nil, fmt.Errorf("%w: %v", remote.ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response body: %v", remote.ErrNetwork, err)
	}

	return resp, respBody, nil
}

// statusError переводит HTTP статус в ошибку remote
func statusError(code int, body []byte) error {
	msg := string(body)
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		msg = errResp.Message
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w (%d): %s", remote.ErrAuthExpired, code, msg)
	case code == http.StatusPreconditionFailed:
		return fmt.Errorf("%w (%d): %s", remote.ErrConflict, code, msg)
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w (%d): %s", remote.ErrNetwork, code, msg)
	default:
		return fmt.Errorf("request failed with status %d: %s", code, msg)
	}
}
