// Package middleware contains the HTTP middleware of the document backend.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/bakesync/internal/server/handlers"
)

// AuthMiddleware проверяет bearer JWT и кладет account id в контекст.
// Expired tokens get a distinct message so clients know to refresh.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				unauthorized(w, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				// сам заголовок не логируем: в нем может быть токен
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				unauthorized(w, "invalid token format")
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, tokenString)
			if errors.Is(err, handlers.ErrTokenExpired) {
				logger.Info("Expired access token", "path", r.URL.Path)
				unauthorized(w, "token expired")
				return
			}
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				unauthorized(w, "invalid token")
				return
			}

			logger.Debug("Account authenticated", "account_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(handlers.WithAccountID(r.Context(), claims.UserID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="bakesync"`)
	writeJSONError(w, message, http.StatusUnauthorized)
}

// writeJSONError пишет ответ в формате api.ErrorResponse
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(`{"error":"` + http.StatusText(statusCode) + `","message":"` + message + `"}`))
}
