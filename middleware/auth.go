package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"achievify/models"
	"achievify/store"
	"achievify/token"
)

type ctxKey string

const userKey ctxKey = "user"

// Auth resolves the identity behind each request. It only reads: token
// verification plus one user lookup, no state changes.
type Auth struct {
	tokens *token.Service
	users  store.UserStore
}

func NewAuth(tokens *token.Service, users store.UserStore) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// RequireAuth expects "Authorization: Bearer <token>". On success the
// resolved user is placed on the request context; handlers never re-derive
// identity themselves.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenStr == header || tokenStr == "" {
			unauthorized(w, "Authorization token is missing")
			return
		}

		claims, err := a.tokens.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				unauthorized(w, "Token has expired")
			} else {
				unauthorized(w, "Token is invalid")
			}
			return
		}

		user, err := a.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrInvalidID):
				unauthorized(w, "Token is invalid")
			case errors.Is(err, store.ErrNotFound):
				unauthorized(w, "User not found")
			default:
				writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
