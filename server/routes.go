package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())

	// Login flows
	s.RegisterRouteFunc("GET "+RouteLogin, s.SSOLoginHandler())
	s.RegisterRouteFunc("GET "+RouteCallback, s.SSOCallbackHandler())
	s.RegisterRouteFunc("POST "+RouteDirectLogin, s.DirectLoginHandler())
	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())
	s.RegisterRouteFunc("POST "+RouteRefreshToken, s.RefreshTokenHandler())

	// Proxy verification (nginx auth_request)
	s.RegisterRouteFunc("GET "+RouteAuthVerify, s.AuthVerifyHandler())

	// Status endpoints
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteFunc("GET "+RouteNginxStatus, s.NginxStatusHandler())

	// Guarded pages
	s.RegisterRouteHandler("GET "+RouteMonitoring, ChainMiddleware(s.MonitoringPageHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfilePageHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteDocumentation, ChainMiddleware(s.DocumentationHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAdmin, ChainMiddleware(s.AdminPageHandler(), s.HTMLMiddleWare(s.RequireRole("admin"))...))

	// Static assets
	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare()...))

	// Everything else is a rendered 404.
	s.RegisterRouteFunc("/", s.NotFoundHandler())
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	fileServer := FileServerHandler()
	return func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	}
}
