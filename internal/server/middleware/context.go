package middleware

import "context"

type holderKey struct{}

type accountHolder struct {
	accountID string
}

func withAccountHolder(ctx context.Context, h *accountHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

func accountHolderFrom(ctx context.Context) *accountHolder {
	h, _ := ctx.Value(holderKey{}).(*accountHolder)
	return h
}
