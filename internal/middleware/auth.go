package middleware

import (
	"context"
	"net/http"
	"strings"

	"travgram/internal/models"
)

type ctxKey int

const userKey ctxKey = iota

// Authorizer resolves a bearer token to the user it belongs to.
type Authorizer interface {
	Authorize(token string) (models.User, error)
}

type AuthMiddleware struct {
	auth Authorizer
}

func NewAuthMiddleware(auth Authorizer) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		user, err := m.auth.Authorize(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the user stored by RequireAuth.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
