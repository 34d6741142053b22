package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-social-auth/auth"
	"github.com/jrsteele09/go-social-auth/internal/config"
	"github.com/jrsteele09/go-social-auth/internal/metrics"
	"github.com/rs/zerolog/log"
)

// HealthCheck reports whether a dependency can serve requests.
type HealthCheck func(ctx context.Context) error

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	mux          *http.ServeMux
	routes       []string
	config       *config.Config
	auth         *auth.Service
	metrics      *metrics.Metrics
	healthChecks map[string]HealthCheck
}

type ServerOption func(*Server)

// WithMetrics records per-route request metrics and exposes them on /metrics.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHealthCheck adds a named dependency check to /healthz.
func WithHealthCheck(name string, check HealthCheck) ServerOption {
	return func(s *Server) {
		s.healthChecks[name] = check
	}
}

func New(cfg *config.Config, authService *auth.Service, options ...ServerOption) *Server {
	s := &Server{
		env:          cfg.GetEnv(),
		mux:          http.NewServeMux(),
		config:       cfg,
		auth:         authService,
		healthChecks: make(map[string]HealthCheck),
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "ANY", route
		}
		log.Debug().Str("method", method).Str("path", path).Msg("route registered")
	}
}

func (s *Server) isDev() bool {
	return s.env == config.EnvDev
}
