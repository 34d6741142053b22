package server

import (
	"net/http"
	"strings"
	"time"
)

// setRefreshCookie stores the refresh credential in an HttpOnly cookie that
// expires with the credential.
func (s *Server) setRefreshCookie(w http.ResponseWriter, refreshToken string, expiresAt time.Time) {
	cookie := s.config.RefreshCookie()
	cookie.Value = refreshToken
	cookie.Expires = expiresAt.UTC()
	cookie.MaxAge = int(time.Until(expiresAt).Seconds())
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, &cookie)
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	cookie := s.config.RefreshCookie()
	cookie.Value = ""
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	http.SetCookie(w, &cookie)
}

// credentialSource records where a refresh credential was found.
type credentialSource int

const (
	sourceNone credentialSource = iota
	sourceHeader
	sourceCookie
)

// refreshTokenFromRequest looks for the refresh credential in the
// X-Refresh-Token header, then (when allowBearer is set) the Authorization
// header, then the cookie.
func (s *Server) refreshTokenFromRequest(r *http.Request, allowBearer bool) (string, credentialSource) {
	if h := strings.TrimSpace(r.Header.Get(HeaderRefreshToken)); h != "" {
		return h, sourceHeader
	}
	if allowBearer {
		if bearer, ok := bearerToken(r); ok {
			return bearer, sourceHeader
		}
	}
	if c, err := r.Cookie(s.config.CookieName); err == nil && c.Value != "" {
		return c.Value, sourceCookie
	}
	return "", sourceNone
}
