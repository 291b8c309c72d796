package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
)

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrValidationFailed, name)
	}
	return id, nil
}

// userIDQuery reads the optional ?user_id= override used by admins acting on
// another user's behalf. Zero means "the caller".
func userIDQuery(r *http.Request) (domain.UserID, error) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid user_id", domain.ErrValidationFailed)
	}
	return id, nil
}

func identity(r *http.Request) auth.Identity {
	ident, _ := auth.IdentityFromContext(r.Context())
	return ident
}
