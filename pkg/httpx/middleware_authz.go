package httpx

import (
	"net/http"
	"slices"
)

// RequireRole gates a route to callers whose role matches one of the given
// roles. Must run after AuthnMiddleware in the chain.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromCtx(r.Context())
			if role == "" {
				WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !slices.Contains(roles, role) {
				WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
