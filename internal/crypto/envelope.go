package crypto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/iudanet/bakesync/pkg/api"
)

// ErrNotEnvelope is returned by Open for a body that is not an encrypted envelope.
var ErrNotEnvelope = errors.New("document is not an encrypted envelope")

// SnapshotSealer шифрует и расшифровывает документы аккаунта.
// Производные ключи кэшируются по соли, так как Argon2id дорогой.
type SnapshotSealer struct {
	keys       map[string][]byte // соль -> ключ
	passphrase string
	accountID  string
	salt       []byte // соль для новых документов
	mu         sync.Mutex
}

// NewSnapshotSealer creates a sealer for accountID.
func NewSnapshotSealer(passphrase, accountID string) (*SnapshotSealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	return &SnapshotSealer{
		keys:       make(map[string][]byte),
		passphrase: passphrase,
		accountID:  accountID,
	}, nil
}

func (s *SnapshotSealer) key(salt []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k, ok := s.keys[string(salt)]; ok {
		return k, nil
	}
	k, err := DeriveSnapshotKey(s.passphrase, s.accountID, salt)
	if err != nil {
		return nil, err
	}
	s.keys[string(salt)] = k
	return k, nil
}

func (s *SnapshotSealer) sealSalt() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.salt == nil {
		salt, err := GenerateSalt()
		if err != nil {
			return nil, err
		}
		s.salt = salt
	}
	return s.salt, nil
}

// Seal wraps a plain document into an encrypted envelope.
func (s *SnapshotSealer) Seal(document []byte) ([]byte, error) {
	salt, err := s.sealSalt()
	if err != nil {
		return nil, err
	}
	key, err := s.key(salt)
	if err != nil {
		return nil, err
	}

	sealed, err := Seal(document, key, []byte(s.accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to seal document: %w", err)
	}

	return json.Marshal(api.Envelope{
		Format:     api.EnvelopeFormat,
		Salt:       salt,
		Ciphertext: sealed,
	})
}

// Open unwraps an envelope produced by Seal (on any device of the account).
func (s *SnapshotSealer) Open(body []byte) ([]byte, error) {
	if !api.IsEnvelope(body) {
		return nil, ErrNotEnvelope
	}

	var env api.Envelope
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}

	key, err := s.key(env.Salt)
	if err != nil {
		return nil, err
	}

	// Повторно используем соль документа для следующих записей
	s.mu.Lock()
	if s.salt == nil {
		s.salt = env.Salt
	}
	s.mu.Unlock()

	return Open(env.Ciphertext, key, []byte(s.accountID))
}
