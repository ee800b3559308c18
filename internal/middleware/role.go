package middleware

import (
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireScope is a middleware that checks a Bearer token carries the required scope.
// Session logins act as the organization itself and always pass.
func RequireScope(requiredScope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get auth info from context (set by RequireOrganization)
		if OrganizationID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized))
			return
		}

		if c.GetString(AuthTypeKey) == AuthTypeSession {
			c.Next()
			return
		}

		for _, scope := range strings.Fields(c.GetString(ScopesKey)) {
			if scope == requiredScope {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrInsufficientScope))
	}
}
