package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ETag возвращает строгий HTTP ETag тела документа: BLAKE2b-256 в hex, в кавычках.
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
