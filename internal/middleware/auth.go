package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aura-social/liveroom/internal/auth"
)

type contextKey string

const (
	ctxUserID   contextKey = "userID"
	ctxUserName contextKey = "userName"
)

// WithUser returns a context carrying the caller identity.
func WithUser(ctx context.Context, id, name string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, id)
	return context.WithValue(ctx, ctxUserName, name)
}

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxUserID).(string)
	return id
}

// UserName returns the authenticated display name from the request context.
func UserName(ctx context.Context) string {
	name, _ := ctx.Value(ctxUserName).(string)
	return name
}

// Auth validates the bearer token and stores the caller identity on the
// context. WebSocket clients that cannot set headers pass the token as the
// subprotocol.
func Auth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			token = r.Header.Get("Sec-WebSocket-Protocol")
		}
		if token == "" {
			http.Error(w, `{"error":"missing token"}`, http.StatusUnauthorized)
			return
		}

		uid, uname, err := auth.ParseToken(secret, token)
		if err != nil {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), uid, uname)))
	}
}
