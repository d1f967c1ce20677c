package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/gosuda/bilemo/internal/auth"
)

// Auth requires a valid bearer token and stores the resulting auth.Caller in
// the request context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				writeProblem(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, tok)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("auth: rejected token")
				writeProblem(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			ctx := WithCaller(r.Context(), auth.CallerFromClaims(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return h[7:]
	}
	return ""
}

// writeProblem writes a small RFC 7807 style error body. detail must not
// contain characters that need JSON escaping.
func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"title":"` + http.StatusText(status) + `","status":` + strconv.Itoa(status) + `,"detail":"` + detail + `"}`))
}
