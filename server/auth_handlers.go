package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/go-social-auth/auth"
	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/jrsteele09/go-social-auth/users"
)

const maxBodyBytes = 1 << 16

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is returned by register, login and refresh.
type sessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"` // seconds until the access token expires
	User         *users.User `json:"user,omitempty"`
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		session, err := s.auth.Register(r.Context(), auth.RegisterRequest{
			Email:    req.Email,
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeSession(w, http.StatusCreated, session)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			s.writeServiceError(w, r, autherrors.InvalidRequest("email and password are required"))
			return
		}

		session, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeSession(w, http.StatusOK, session)
	}
}

// RefreshHandler rotates the refresh credential. A rejected cookie credential
// is spent, so the cookie is cleared; a cookie the request did not use is
// left alone.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken, source := s.refreshTokenFromRequest(r, true)
		if source == sourceNone {
			writeJSONError(w, "invalid_request", "refresh credential is required", http.StatusBadRequest)
			return
		}

		session, err := s.auth.Rotate(r.Context(), refreshToken)
		if err != nil {
			if source == sourceCookie && !autherrors.Is(err, autherrors.ErrAuthServiceUnavailable) {
				s.clearRefreshCookie(w)
			}
			s.writeServiceError(w, r, err)
			return
		}
		s.writeSession(w, http.StatusOK, session)
	}
}

// LogoutHandler revokes the bearer access credential and, when present, the
// refresh credential from the header or cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="social-auth"`)
			writeJSONError(w, "invalid_token", "missing bearer credential", http.StatusUnauthorized)
			return
		}

		refreshToken, _ := s.refreshTokenFromRequest(r, false)
		if err := s.auth.Logout(r.Context(), accessToken, refreshToken); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.clearRefreshCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := ClaimFromContext(r.Context())
		user, err := s.auth.Me(r.Context(), claim)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) writeSession(w http.ResponseWriter, status int, session *auth.Session) {
	s.setRefreshCookie(w, session.RefreshToken, session.RefreshExpiresAt)
	writeJSON(w, status, sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(time.Until(session.AccessExpiresAt).Round(time.Second).Seconds()),
		User:         session.User,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return autherrors.InvalidRequest("malformed JSON body")
	}
	return nil
}
