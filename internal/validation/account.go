// Package validation checks identifiers and secrets entered by operators.
package validation

import (
	"fmt"
	"regexp"
)

// AccountIDPattern определяет допустимый формат account id
// Латинские буквы, цифры, '_' и '-'; длина 3-64 символа
var AccountIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

const (
	// MinAccountIDLen минимальная длина account id
	MinAccountIDLen = 3
	// MaxAccountIDLen максимальная длина account id
	MaxAccountIDLen = 64
	// MinPassphraseLen минимальная длина passphrase шифрования документа
	MinPassphraseLen = 12
)

// ValidateAccountID проверяет id аккаунта, для которого выпускается токен.
// The id becomes the storage key of the account document and part of the
// encryption key derivation, so it is kept short and printable.
func ValidateAccountID(accountID string) error {
	if accountID == "" {
		return fmt.Errorf("account id cannot be empty")
	}

	if len(accountID) < MinAccountIDLen {
		return fmt.Errorf("account id must be at least %d characters long", MinAccountIDLen)
	}

	if len(accountID) > MaxAccountIDLen {
		return fmt.Errorf("account id must not exceed %d characters", MaxAccountIDLen)
	}

	if !AccountIDPattern.MatchString(accountID) {
		return fmt.Errorf("account id can only contain letters (a-z, A-Z), numbers (0-9), underscores (_) and dashes (-)")
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к passphrase
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}

	return nil
}
