package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/matteiweekly/newsroom/pkg/slogx"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID string
	Role   string
}

// TokenVerifier resolves a raw bearer token into an Identity. The session
// service implements this; verification includes signature, expiry, session
// revocation and the user's active flag.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
}

// AuthnMiddleware extracts the bearer token, verifies it and injects the
// caller's identity into the request context.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			identity, err := v.VerifyToken(ctx, raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("session verify failed", "err", err)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, identity.UserID)
			ctx = context.WithValue(ctx, CtxKeyRole, identity.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, desc)
}
