// Package api contains the wire formats shared by the sync client and the
// reference document backend.
package api

import (
	"encoding/json"
)

// Snapshot endpoint and headers
const (
	SnapshotPath = "/api/v1/snapshot"
	HealthPath   = "/api/v1/health"

	// HeaderVersion дублирует версию снапшота для клиентов, которые не разбирают тело
	HeaderVersion = "X-Snapshot-Version"
)

// EnvelopeFormat identifies an encrypted snapshot document.
const EnvelopeFormat = "aes-256-gcm+argon2id"

// Envelope представляет зашифрованный документ
type Envelope struct {
	Format     string `json:"format"`     // EnvelopeFormat
	Salt       []byte `json:"salt"`       // соль Argon2id (base64)
	Ciphertext []byte `json:"ciphertext"` // nonce + ciphertext + auth_tag (base64)
}

// IsEnvelope reports whether body is an encrypted envelope rather than a
// plain document.
func IsEnvelope(body []byte) bool {
	var probe struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	return probe.Format == EnvelopeFormat
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// HealthResponse представляет ответ health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// PutSnapshotResponse is returned by a successful conditional PUT. The new
// ETag is also sent in the ETag header.
type PutSnapshotResponse struct {
	ETag            string `json:"etag"`
	Revision        int64  `json:"revision"`
	SnapshotVersion int64  `json:"snapshotVersion"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
