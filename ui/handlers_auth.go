package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oncodash/domain/access"
	"oncodash/internal/errors"
	"oncodash/models"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// handleSigninView serves the sign-in surface data: whether a redirect is
// pending and which roles signup accepts.
func (s *Server) handleSigninView(c *gin.Context) {
	returnTo, _ := c.Cookie(returnToCookie)
	c.JSON(http.StatusOK, gin.H{
		"return_to": returnTo,
		"roles":     []access.Role{access.RoleScientist, access.RoleDataScientist},
	})
}

// handleLogin exchanges credentials for a backend token and opens a session.
// A successful login redirects to the remembered original path, or the
// overview when none was remembered.
func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, errors.ValidationError("email and password are required"))
		return
	}

	result, err := s.backend.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, http.StatusUnauthorized, err)
		return
	}
	s.openSession(c, req.Email, access.Role(result.Role), result.AccessToken)
}

// handleSignup registers a user with the auth collaborator and opens a
// session with the issued token, same as login.
func (s *Server) handleSignup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, errors.ValidationError("email, password and role are required"))
		return
	}
	role := access.Role(req.Role)
	if role != access.RoleScientist && role != access.RoleDataScientist {
		s.respondError(c, http.StatusBadRequest, errors.ValidationError("role must be scientist or data_scientist"))
		return
	}

	result, err := s.backend.Signup(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	s.openSession(c, req.Email, access.Role(result.Role), result.AccessToken)
}

func (s *Server) openSession(c *gin.Context, email string, role access.Role, token string) {
	session := models.NewSession(email, role, token)
	if err := s.sessions.Put(c.Request.Context(), session); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.backend.SetToken(token)
	c.SetCookie(sessionCookie, session.ID.String(), cookieMaxAge, "/", "", false, true)

	returnTo, _ := c.Cookie(returnToCookie)
	target := access.PostLoginTarget(access.Route(returnTo))
	c.SetCookie(returnToCookie, "", -1, "/", "", false, true)

	s.logger.Info("[Auth] session opened for %s as %s", email, role)
	c.JSON(http.StatusOK, gin.H{
		"redirect": target,
		"role":     role,
		"email":    email,
	})
}

// handleLogout clears the session; the next protected-route request
// re-enters the anonymous branch of the guard.
func (s *Server) handleLogout(c *gin.Context) {
	if session := s.lookupSession(c); session != nil {
		if err := s.sessions.Delete(c.Request.Context(), session.ID); err != nil {
			s.logger.Warn("[Auth] failed to delete session: %v", err)
		}
		s.views.drop(session.ID)
	}
	s.backend.SetToken("")
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": access.RouteSignin})
}

// respondError surfaces an operation failure inline near the triggering
// control: a JSON error with its code, no partial mutation of other state.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	s.logger.Warn("[Server] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
