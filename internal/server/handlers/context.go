package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// AccountIDKey ключ для хранения account id в контексте
const AccountIDKey contextKey = "account_id"

// WithAccountID returns a copy of ctx carrying the authenticated account id
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// GetAccountID извлекает account id из контекста запроса
func GetAccountID(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(string)
	return accountID, ok && accountID != ""
}
