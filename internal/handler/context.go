package handlers

import (
	"context"
	"net/http"

	"rentalAPI/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser stores the authenticated account in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// currentUser writes 401 when the request carries no account.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}
