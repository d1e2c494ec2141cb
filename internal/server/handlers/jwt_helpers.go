package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/bakesync/internal/validation"
)

// DefaultIssuer is the iss claim of tokens minted by the backend
const DefaultIssuer = "bakesync"

// CustomClaims представляет JWT claims: user_id is the account whose
// document the bearer may read and write
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTConfig содержит конфигурацию для JWT
type JWTConfig struct {
	Issuer   string
	Secret   []byte
	TokenTTL time.Duration
}

// ErrTokenExpired is returned by ValidateAccessToken for expired tokens
var ErrTokenExpired = errors.New("token expired")

// GenerateAccessToken создает новый JWT access token для аккаунта
func GenerateAccessToken(cfg JWTConfig, accountID string, now time.Time) (string, int64, error) {
	if err := validation.ValidateAccountID(accountID); err != nil {
		return "", 0, err
	}
	expiresAt := now.Add(cfg.TokenTTL)

	claims := CustomClaims{
		UserID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer(cfg),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(cfg.TokenTTL.Seconds()), nil
}

// ValidateAccessToken валидирует и парсит JWT access token
func ValidateAccessToken(cfg JWTConfig, tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer(cfg)),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func issuer(cfg JWTConfig) string {
	if cfg.Issuer == "" {
		return DefaultIssuer
	}
	return cfg.Issuer
}
