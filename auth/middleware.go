package auth

import (
	"context"
	"net/http"

	"github.com/user/mytodolist-go/apperror"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// NewContextWithUser returns a child context carrying the authenticated user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// Sessions resolves the session cookie to a user and stores it in the
// request context. It never rejects a request: routes that demand a login
// add RequireUser on top.
func Sessions(store *SessionStore, cookieName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				if user, err := store.GetUser(r.Context(), cookie.Value); err == nil {
					r = r.WithContext(NewContextWithUser(r.Context(), &user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects requests that carry no authenticated user with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			WriteError(w, r, apperror.NewAuthError("User is not authenticated", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
