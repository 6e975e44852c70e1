package middlewares

import (
	"net/http"

	"github.com/WeeklyPrayers/models"
	"github.com/gin-gonic/gin"
)

// RequireRole gates a route on a minimum role rank. Must run after
// CheckAuth.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.MustGet("currentRole").(models.Role)

		if !role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient permissions",
				"required": string(min),
				"current":  string(role),
			})
			return
		}

		c.Next()
	}
}
