package ui

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"oncodash/domain/access"
	"oncodash/models"
)

const (
	sessionCookie  = "odash_session"
	returnToCookie = "odash_return_to"
	cookieMaxAge   = 24 * 60 * 60
	sessionKey     = "session"
)

// RequireAccess is the navigation guard: it resolves the session behind the
// request cookie and maps (token presence, role, requested route) to a
// navigation outcome. Authorization failures are redirects, never errors.
func (s *Server) RequireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := s.lookupSession(c)
		route := routeOf(c.Request.URL.Path)

		decision := access.Decide(session.LoggedIn(), sessionRole(session), route)
		switch decision.Verdict {
		case access.VerdictSignin:
			// Remember the originally requested path for the post-login
			// redirect.
			c.SetCookie(returnToCookie, string(decision.RememberPath), cookieMaxAge, "/", "", false, true)
			c.Redirect(http.StatusFound, string(decision.RedirectTo))
			c.Abort()
		case access.VerdictFallback:
			c.Redirect(http.StatusFound, string(decision.RedirectTo))
			c.Abort()
		default:
			c.Set(sessionKey, session)
			c.Next()
		}
	}
}

// lookupSession resolves the cookie to a stored session; any failure along
// the way means anonymous, never an error.
func (s *Server) lookupSession(c *gin.Context) *models.Session {
	raw, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	session, err := s.sessions.Get(c.Request.Context(), id)
	if err != nil {
		s.logger.Warn("[Guard] session lookup failed: %v", err)
		return nil
	}
	return session
}

func sessionRole(session *models.Session) access.Role {
	if session == nil {
		return ""
	}
	return session.Role
}

// routeOf maps a request path to its owning view: /metrics/export belongs
// to /metrics, /predict/sample to /predict, and so on.
func routeOf(path string) access.Route {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return access.RouteOverview
	}
	segment := trimmed
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		segment = trimmed[:idx]
	}
	switch route := access.Route("/" + segment); route {
	case access.RouteOverview, access.RoutePredict, access.RouteExplainability,
		access.RouteMetrics, access.RouteSignin:
		return route
	case "/monitoring", "/chat":
		// Telemetry and the assistant live on the overview surface.
		return access.RouteOverview
	}
	return access.RouteOverview
}

// currentSession returns the session the guard attached to the context.
func currentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*models.Session); ok {
			return session
		}
	}
	return nil
}
