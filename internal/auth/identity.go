package auth

import (
	"context"

	"activeresident/internal/domain"
)

// Identity is the resolved caller every service operation receives. Handlers
// never pass raw credentials past this boundary.
type Identity struct {
	ID      domain.UserID
	IsAdmin bool
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, ident)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return ident, ok
}
