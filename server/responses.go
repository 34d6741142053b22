package server

import (
	"encoding/json"
	"net/http"

	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

// writeJSONError writes an OAuth2 style error response
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}

type errorMapping struct {
	kind        error
	code        string
	description string
	status      int
}

// errorMappings is checked in order; the first kind found in the chain wins.
var errorMappings = []errorMapping{
	{autherrors.ErrAuthServiceUnavailable, "temporarily_unavailable", "authentication is temporarily unavailable", http.StatusServiceUnavailable},
	{autherrors.ErrInvalidCredentials, "invalid_credentials", "email or password is incorrect", http.StatusUnauthorized},
	{autherrors.ErrInvalidCredential, "invalid_token", "credential is invalid or expired", http.StatusUnauthorized},
	{autherrors.ErrAccountLocked, "account_locked", "account is locked", http.StatusForbidden},
	{autherrors.ErrEmailExists, "email_exists", "email is already registered", http.StatusConflict},
	{autherrors.ErrUsernameExists, "username_exists", "username is already taken", http.StatusConflict},
	{autherrors.ErrUserNotFound, "not_found", "user not found", http.StatusNotFound},
	{autherrors.ErrInvalidRequest, "invalid_request", "request is invalid", http.StatusBadRequest},
}

// writeServiceError maps a Service error onto a status and a client-safe
// description. The full chain is only logged, except in DEV where it is also
// returned.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	mapping := errorMapping{code: "server_error", description: "internal error", status: http.StatusInternalServerError}
	for _, m := range errorMappings {
		if autherrors.Is(err, m.kind) {
			mapping = m
			break
		}
	}

	description := mapping.description
	var problem *autherrors.ValidationError
	if autherrors.As(err, &problem) && problem.Reason != "" {
		description = problem.Reason
	}

	event := log.Warn()
	if mapping.status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", mapping.status).Msg("request failed")

	if s.isDev() {
		description += " (" + err.Error() + ")"
	}
	if mapping.status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="social-auth", error="`+mapping.code+`"`)
	}
	writeJSONError(w, mapping.code, description, mapping.status)
}
