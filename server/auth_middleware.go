package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-social-auth/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaim stores the authenticated token.Claim
const ContextKeyClaim ContextKey = "claim"

// ClaimFromContext returns the claim attached by RequireAuth.
func ClaimFromContext(ctx context.Context) (token.Claim, bool) {
	claim, ok := ctx.Value(ContextKeyClaim).(token.Claim)
	return claim, ok
}

// RequireAuth is middleware that validates a Bearer access token and attaches
// its claim to the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			accessToken, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="social-auth"`)
				writeJSONError(w, "invalid_token", "missing bearer credential", http.StatusUnauthorized)
				return
			}

			claim, err := s.auth.AuthenticateRequest(r.Context(), accessToken)
			if err != nil {
				s.writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaim, claim)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRoles must follow RequireAuth. It refuses the request unless the
// claim carries at least one of roles.
func (s *Server) RequireRoles(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claim, ok := ClaimFromContext(r.Context())
			if !ok {
				writeJSONError(w, "invalid_token", "missing bearer credential", http.StatusUnauthorized)
				return
			}
			if !claim.HasAnyRole(roles...) {
				writeJSONError(w, "forbidden", "insufficient role", http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	credential := strings.TrimSpace(parts[1])
	return credential, credential != ""
}
