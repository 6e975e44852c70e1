package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WeeklyPrayers/initializers"
)

var startedAt = time.Now()

// HealthCheck reports API and database status. Returns 503 when the
// database probe fails so load balancers can pull the instance.
func HealthCheck(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Seconds(),
		"services": gin.H{
			"api":      "ok",
			"database": "ok",
		},
	}

	var one int
	if _, err := initializers.DB.ScanValContext(c, &one, "SELECT 1"); err != nil {
		health["status"] = "degraded"
		health["services"] = gin.H{"api": "ok", "database": "error"}
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}
