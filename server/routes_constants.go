package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth routes
	RouteLogin        = "/login"
	RouteDirectLogin  = "/direct-login"
	RouteCallback     = "/callback"
	RouteLogout       = "/logout"
	RouteRefreshToken = "/refresh-token"
	RouteAuthVerify   = "/auth/verify"

	// Guarded pages
	RouteMonitoring    = "/monitoring"
	RouteAdmin         = "/admin"
	RouteProfile       = "/profile"
	RouteDocumentation = "/documentation"

	// Status endpoints (no auth)
	RouteHealth      = "/health"
	RouteNginxStatus = "/nginx-status"

	// Static asset routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
