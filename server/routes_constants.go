package server

// Route path constants
const (
	// Session routes
	RouteAuthRegister = "/auth/register"
	RouteAuthLogin    = "/auth/login"
	RouteAuthRefresh  = "/auth/refresh"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthMe       = "/auth/me"

	// Admin routes
	RouteAdminUsers      = "/admin/users"
	RouteAdminUserLock   = "/admin/users/{id}/lock"
	RouteAdminUserUnlock = "/admin/users/{id}/unlock"

	// Operational routes
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)

// HeaderRefreshToken carries a refresh credential for clients that cannot
// use cookies.
const HeaderRefreshToken = "X-Refresh-Token"
