package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"activeresident/internal/domain"
)

// UserResolver loads the authenticated principal; backed by the user store.
// Deactivated users must come back as not found.
type UserResolver interface {
	ResolveUser(ctx context.Context, id domain.UserID) (*domain.User, error)
}

// RequireUser resolves the Bearer token to an Identity and puts it on the
// request context. Missing/invalid tokens get 401, deactivated users 403.
func RequireUser(signer *Signer, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			id, err := signer.VerifyAccess(raw)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			user, err := users.ResolveUser(r.Context(), id)
			if err != nil {
				slog.Debug("principal resolution failed", "user_id", id, "error", err)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !user.IsActive {
				http.Error(w, "account deactivated", http.StatusForbidden)
				return
			}
			ctx := WithIdentity(r.Context(), Identity{ID: user.ID, IsAdmin: user.IsAdmin})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
