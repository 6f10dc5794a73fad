package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	requestIDKey
)

// TokenSource extracts the session token a request carries, or "".
type TokenSource interface {
	Token(r *http.Request) string
}

// SessionResolver maps a token to the user it was issued to.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (userID int64, ok bool, err error)
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the id stored by RequireSession.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id assigned by WithLogging, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireSession rejects requests without a live session with 401 and
// otherwise stores the session's user id in the request context. The cookie
// wins over a bearer header when both are present.
func RequireSession(tokens TokenSource, sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokens.Token(r)
			if token == "" {
				token = BearerToken(r)
			}

			userID, ok, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				slog.Error("session lookup failed", "request_id", RequestID(r.Context()), "error", err)
				ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !ok {
				ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
