package middleware

import (
	"net/http"
	"slices"
)

// RequireRole returns middleware that checks if the authenticated caller has
// at least one of the allowed roles. It must be chained after Auth.
//
// Returns 401 Unauthorized when no caller is found in context and 403
// Forbidden when none of the caller's roles is allowed.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !slices.ContainsFunc(roles, caller.HasRole) {
				writeProblem(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
