// Package server wires the gateway's HTTP surface: the login flows, the
// guarded pages, and the proxy-verification endpoint.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/holsteinlabs/authgate/auth"
	"github.com/holsteinlabs/authgate/idp"
	"github.com/holsteinlabs/authgate/internal/config"
	"github.com/holsteinlabs/authgate/server/authflowrepo"
	"github.com/holsteinlabs/authgate/sessions"
)

// SSOClient is the slice of the provider client the redirect flow needs.
// *idp.Client satisfies it.
type SSOClient interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*idp.TokenSet, *idp.UserInfo, error)
}

type Server struct {
	debug    bool
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	sso      SSOClient
	sessions sessions.Repo
	ssoState authflowrepo.Repo
}

func New(cfg config.Config, authService *auth.Service, sso SSOClient, sessionRepo sessions.Repo, ssoStateRepo authflowrepo.Repo) *Server {
	s := &Server{
		debug:    cfg.GetDebug(),
		mux:      http.NewServeMux(),
		config:   cfg,
		auth:     authService,
		sso:      sso,
		sessions: sessionRepo,
		ssoState: ssoStateRepo,
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
	if !s.debug {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
