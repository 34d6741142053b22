package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

// AdminUsersListHandler pages through principals with ?offset=&limit=.
func (s *Server) AdminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset := queryInt(r, "offset", 0)
		limit := queryInt(r, "limit", 20)

		resp, err := s.auth.ListUsers(r.Context(), offset, limit)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) AdminLockUserHandler() http.HandlerFunc {
	return s.lockHandler(true)
}

func (s *Server) AdminUnlockUserHandler() http.HandlerFunc {
	return s.lockHandler(false)
}

func (s *Server) lockHandler(locked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		if userID == "" {
			writeJSONError(w, "invalid_request", "user id is required", http.StatusBadRequest)
			return
		}

		var err error
		if locked {
			err = s.auth.LockAccount(r.Context(), userID)
		} else {
			err = s.auth.UnlockAccount(r.Context(), userID)
		}
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		claim, _ := ClaimFromContext(r.Context())
		log.Info().Str("admin_id", claim.Subject).Str("user_id", userID).Bool("locked", locked).Msg("account lock changed")
		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthzHandler runs every registered dependency check and answers 503 if
// any of them fails.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(s.healthChecks))
		for name, check := range s.healthChecks {
			if err := check(ctx); err != nil {
				log.Warn().Err(err).Str("check", name).Msg("health check failed")
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		writeJSON(w, status, map[string]any{"status": overall, "checks": checks})
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
