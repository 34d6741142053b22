package server

import (
	"net/http"

	"github.com/jrsteele09/go-social-auth/users"
)

func (s *Server) initRoutes() {
	// Session lifecycle
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Preflight for browser clients on a different origin, any path
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(noContent, s.APIMiddleware()...))

	// Admin routes (require a bearer access credential with the admin role)
	admin := s.APIMiddleware(s.RequireAuth(), s.RequireRoles(string(users.RoleAdmin)))
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersListHandler(), admin...))
	s.RegisterRouteHandler("POST "+RouteAdminUserLock, ChainMiddleware(s.AdminLockUserHandler(), admin...))
	s.RegisterRouteHandler("POST "+RouteAdminUserUnlock, ChainMiddleware(s.AdminUnlockUserHandler(), admin...))

	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	if s.metrics != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
	}
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
