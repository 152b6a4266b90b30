package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/holsteinlabs/authgate/sessions"
)

// Role values recognised by the proxy-verification endpoint and the page
// guards.
const (
	RoleAdmin  = "admin"
	RoleView   = "view"
	RoleModify = "modify"
)

// Forwarding headers emitted on an allowed request, consumed by the
// reverse proxy.
const (
	HeaderForwardedUser   = "X-Forwarded-User"
	HeaderForwardedGroups = "X-Forwarded-Groups"
	HeaderUserEmail       = "X-User-Email"
	HeaderUserName        = "X-User-Name"
)

// Decision is the outcome of an authorization check. ExpiredSession marks
// a 401 caused by token expiry, which obliges the caller to clear the
// session as part of reporting the failure.
type Decision struct {
	Status         int
	Headers        map[string]string
	ExpiredSession bool
}

func (d Decision) Allowed() bool {
	return d.Status == http.StatusOK
}

// Decide maps (session, required role) to allow/deny. It is pure: the
// destructive clear on expiry is performed by the caller.
//
// An empty requiredRole allows any authenticated session. "admin"
// requires the admin group; "view" and "modify" are satisfied by the role
// itself or by admin. Other role values fall through to allow, matching
// the verification contract that only these three are meaningful.
func Decide(session *sessions.Session, requiredRole string, now time.Time) Decision {
	if session == nil {
		return Decision{Status: http.StatusUnauthorized}
	}

	if session.TokenExpired(now) || session.Expired(now) {
		return Decision{Status: http.StatusUnauthorized, ExpiredSession: true}
	}

	switch requiredRole {
	case RoleAdmin:
		if !session.HasGroup(RoleAdmin) {
			return Decision{Status: http.StatusForbidden}
		}
	case RoleView, RoleModify:
		if !session.HasGroup(requiredRole) && !session.HasGroup(RoleAdmin) {
			return Decision{Status: http.StatusForbidden}
		}
	}

	return Decision{
		Status: http.StatusOK,
		Headers: map[string]string{
			HeaderForwardedUser:   session.User.Username,
			HeaderForwardedGroups: strings.Join(session.User.Groups, ","),
			HeaderUserEmail:       session.User.Email,
			HeaderUserName:        session.User.Name,
		},
	}
}
