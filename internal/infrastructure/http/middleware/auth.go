package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// ErrorWriter renders an application error as the HTTP response
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate resolves an optional bearer token into an identity on the
// request context. A request without a token passes through anonymously; a
// malformed or expired token is rejected.
func Authenticate(tokens outbound.TokenService, writeError ErrorWriter, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, r, errors.NewUnauthorizedError("Malformed authorization header"))
				return
			}

			identity, err := tokens.Validate(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("Rejected access token", zap.Error(err))
				writeError(w, r, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth(writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUserID(r.Context()); !ok {
				writeError(w, r, errors.NewUnauthorizedError("Authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity stores the authenticated identity on ctx
func WithIdentity(ctx context.Context, identity *outbound.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// CurrentIdentity returns the authenticated identity, if any
func CurrentIdentity(ctx context.Context) (*outbound.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*outbound.Identity)
	return identity, ok && identity != nil
}

// CurrentUserID returns the authenticated user's id. Saved recipes are
// keyed by this value.
func CurrentUserID(ctx context.Context) (string, bool) {
	identity, ok := CurrentIdentity(ctx)
	if !ok || identity.UserID == "" {
		return "", false
	}
	return identity.UserID, true
}
