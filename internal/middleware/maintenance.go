package middleware

import (
	"net/http"

	"github.com/foliopress/foliopress-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Maintenance answers 503 on the public read surface while the
// maintenance_mode setting is on. The flag is read per request so flipping
// it takes effect immediately; the admin surface is not behind this
// middleware and stays reachable.
func Maintenance(settings service.SettingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if settings.MaintenanceMode(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{
					"code":    "MAINTENANCE",
					"message": "site is temporarily down for maintenance",
				},
			})
			return
		}
		c.Next()
	}
}
