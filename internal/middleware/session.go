package middleware

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SessionAuth resolves the session cookie into the organization context.
// Malformed or unknown tokens get 401 INVALID_COOKIE, expired ones 403 EXPIRED_COOKIE.
func SessionAuth(sessions services.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticateSession(c, sessions, cookieName) {
			c.Next()
		}
	}
}

// RequireOrganization accepts either a Bearer access token or the session cookie.
// The Authorization header wins when both are present.
func RequireOrganization(sessions services.SessionService, cookieName string, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ok bool
		if c.GetHeader("Authorization") != "" {
			ok = authenticateBearer(c, jwtSecret)
		} else {
			ok = authenticateSession(c, sessions, cookieName)
		}
		if ok {
			c.Next()
		}
	}
}

func authenticateSession(c *gin.Context, sessions services.SessionService, cookieName string) bool {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized))
		return false
	}

	actor, err := sessions.ResolveSession(c.Request.Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidSessionToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.MsgInvalidCookie))
		return false
	case errors.Is(err, services.ErrSessionExpired):
		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.MsgExpiredCookie))
		return false
	default:
		log.WithError(err).Error("Failed to resolve session")
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer))
		return false
	}

	c.Set(OrganizationIDKey, actor.OrganizationID)
	c.Set(SessionIDKey, actor.SessionID)
	c.Set(AuthTypeKey, AuthTypeSession)
	return true
}

// OrganizationID returns the organization set by the authentication middlewares
func OrganizationID(c *gin.Context) string {
	return c.GetString(OrganizationIDKey)
}
