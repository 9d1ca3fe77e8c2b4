package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/trafficadmin/internal/adapter/http/dto"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// SessionContextKey is the context key for the caller's session
	SessionContextKey ContextKey = "session"
)

// TokenVerifier turns a session token into an identity.
type TokenVerifier interface {
	Authenticate(token string) (string, error)
}

// Session is the caller as seen by the transport.
type Session struct {
	Identity  string
	Connected bool
}

// Authenticate resolves the bearer token, if any, into a Session. Requests
// without an Authorization header continue anonymously; a header that does
// not carry a valid token is rejected with 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), Session{})))
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				dto.WriteError(w, http.StatusUnauthorized, dto.CodeUnauthorized, "invalid authorization header format", "")
				return
			}

			identity, err := verifier.Authenticate(strings.TrimSpace(parts[1]))
			if err != nil {
				dto.WriteError(w, http.StatusUnauthorized, dto.CodeUnauthorized, "invalid or expired session token", "")
				return
			}

			ctx := WithSession(r.Context(), Session{Identity: identity, Connected: true})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, s)
}

// SessionFromContext extracts the caller's session. A missing session is
// anonymous.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(SessionContextKey).(Session)
	return s
}
